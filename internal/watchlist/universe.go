package watchlist

type seedTicker struct {
	symbol   string
	category string
}

// defaultUniverse is the scanner seed: liquid, heavily optioned names across
// index ETFs, mega-cap tech, semis, crypto proxies, financials, and the
// usual high-beta retail favorites.
var defaultUniverse = []seedTicker{
	{"SPY", "Index ETF"}, {"QQQ", "Index ETF"}, {"IWM", "Index ETF"}, {"DIA", "Index ETF"},
	{"VOO", "Index ETF"}, {"VTI", "Index ETF"}, {"VXX", "Index ETF"}, {"UVXY", "Index ETF"},
	{"SQQQ", "Leveraged ETF"}, {"TQQQ", "Leveraged ETF"}, {"SPXL", "Leveraged ETF"},
	{"SPXS", "Leveraged ETF"}, {"SOXL", "Leveraged ETF"}, {"SOXS", "Leveraged ETF"},
	{"ARKK", "Sector ETF"}, {"ARKW", "Sector ETF"}, {"ARKG", "Sector ETF"},
	{"XLK", "Sector ETF"}, {"XLV", "Sector ETF"}, {"XLI", "Sector ETF"},

	{"AAPL", "Mega-Cap Tech"}, {"MSFT", "Mega-Cap Tech"}, {"GOOGL", "Mega-Cap Tech"},
	{"GOOG", "Mega-Cap Tech"}, {"AMZN", "Mega-Cap Tech"}, {"META", "Mega-Cap Tech"},
	{"TSLA", "Mega-Cap Tech"}, {"NVDA", "Mega-Cap Tech"}, {"AVGO", "Mega-Cap Tech"},
	{"ORCL", "Mega-Cap Tech"},

	{"CRM", "Cloud/SaaS"}, {"ADBE", "Cloud/SaaS"}, {"NFLX", "Streaming"},
	{"PYPL", "Fintech"}, {"INTC", "Semiconductors"}, {"CSCO", "Networking"},
	{"IBM", "Enterprise"}, {"QCOM", "Semiconductors"}, {"TXN", "Semiconductors"},
	{"NOW", "Cloud/SaaS"}, {"SNOW", "Cloud/SaaS"}, {"PLTR", "AI/Data"},
	{"UBER", "Rideshare"}, {"ABNB", "Travel"}, {"SHOP", "E-commerce"},
	{"SQ", "Fintech"}, {"SPOT", "Streaming"}, {"DDOG", "Cloud/SaaS"},
	{"ZS", "Cybersecurity"}, {"CRWD", "Cybersecurity"}, {"NET", "Cloud/CDN"},
	{"MDB", "Cloud/SaaS"}, {"PANW", "Cybersecurity"}, {"OKTA", "Cybersecurity"},
	{"TWLO", "Cloud/SaaS"}, {"ZM", "Cloud/SaaS"}, {"DOCU", "Cloud/SaaS"},
	{"ROKU", "Streaming"}, {"U", "Gaming"}, {"RBLX", "Gaming"},

	{"AMD", "Semiconductors"}, {"MU", "Semiconductors"}, {"MRVL", "Semiconductors"},
	{"LRCX", "Semiconductors"}, {"KLAC", "Semiconductors"}, {"AMAT", "Semiconductors"},
	{"ASML", "Semiconductors"}, {"TSM", "Semiconductors"}, {"ON", "Semiconductors"},
	{"ARM", "Semiconductors"},

	{"MSTR", "Crypto"}, {"COIN", "Crypto"}, {"MARA", "Crypto"}, {"RIOT", "Crypto"},
	{"CLSK", "Crypto"}, {"HUT", "Crypto"}, {"BITF", "Crypto"}, {"IBIT", "Crypto"},
	{"GBTC", "Crypto"}, {"BITO", "Crypto"},

	{"JPM", "Financials"}, {"BAC", "Financials"}, {"WFC", "Financials"},
	{"GS", "Financials"}, {"MS", "Financials"}, {"C", "Financials"},
	{"SCHW", "Financials"}, {"BLK", "Financials"}, {"AXP", "Financials"},
	{"V", "Financials"}, {"MA", "Financials"},

	{"UNH", "Healthcare"}, {"JNJ", "Healthcare"}, {"PFE", "Biotech"},
	{"MRNA", "Biotech"}, {"ABBV", "Pharma"}, {"LLY", "Pharma"},
	{"MRK", "Pharma"}, {"BMY", "Pharma"}, {"GILD", "Biotech"}, {"AMGN", "Biotech"},

	{"WMT", "Retail"}, {"COST", "Retail"}, {"TGT", "Retail"}, {"HD", "Retail"},
	{"LOW", "Retail"}, {"NKE", "Consumer"}, {"SBUX", "Consumer"},
	{"MCD", "Consumer"}, {"KO", "Consumer"}, {"PEP", "Consumer"},

	{"BA", "Industrial"}, {"CAT", "Industrial"}, {"DE", "Industrial"},
	{"GE", "Industrial"}, {"HON", "Industrial"}, {"UPS", "Logistics"},
	{"FDX", "Logistics"}, {"XOM", "Energy"}, {"CVX", "Energy"}, {"COP", "Energy"},

	{"RIVN", "EV"}, {"LCID", "EV"}, {"NIO", "EV"}, {"LI", "EV"}, {"XPEV", "EV"},
	{"PLUG", "Clean Energy"}, {"FSLR", "Clean Energy"}, {"ENPH", "Clean Energy"},
	{"RUN", "Clean Energy"}, {"CHPT", "EV"},

	{"GME", "Meme"}, {"AMC", "Meme"}, {"BBBY", "Meme"}, {"SOFI", "Fintech"},
	{"HOOD", "Fintech"}, {"AFRM", "Fintech"}, {"UPST", "Fintech"},

	{"DIS", "Entertainment"}, {"CMCSA", "Entertainment"}, {"WBD", "Entertainment"},
	{"PARA", "Entertainment"}, {"SNAP", "Social"}, {"PINS", "Social"}, {"MTCH", "Social"},

	{"XLF", "Sector ETF"}, {"XLE", "Sector ETF"}, {"XLP", "Sector ETF"},
	{"XLB", "Sector ETF"}, {"XLRE", "Sector ETF"}, {"XLU", "Sector ETF"},
	{"GLD", "Commodity ETF"}, {"SLV", "Commodity ETF"}, {"USO", "Commodity ETF"},
	{"UNG", "Commodity ETF"}, {"TLT", "Bond ETF"}, {"HYG", "Bond ETF"},
	{"LQD", "Bond ETF"}, {"EEM", "Intl ETF"}, {"EFA", "Intl ETF"},
	{"FXI", "Intl ETF"}, {"KWEB", "Intl ETF"},
}
