package classify

import (
	"net/url"
	"strings"

	"edujobs/aggregator/internal/model"
)

// countryRules is ordered: Hong Kong and Macao are tested before China, South
// Korea carries its own guard against North Korea mentions, and Georgia skips
// the US state.
var countryRules = []rule{
	newRule(`hong\s*kong`, "Hong Kong SAR"),
	newRule(`macau|macao`, "Macao SAR"),
	newRule(`\bchina\b|\bprc\b|mainland`, "China"),
	newRule(`taiwan`, "Taiwan"),
	newRule(`japan`, "Japan"),
	newRule(`south\s*korea`, "South Korea"),
	newRule(`republic.*korea`, "South Korea").unlessPrecededBy(`people'?s\s*`),
	newRule(`\bkorea\b`, "South Korea").unlessFollowedBy(`.*north`).unlessPrecededBy(`north\s*|people'?s\s+republic\s+of\s+`),
	newRule(`north\s*korea|dprk|people'?s\s+republic\s+of\s+korea`, "North Korea"),
	newRule(`mongolia`, "Mongolia"),

	newRule(`brunei`, "Brunei"),
	newRule(`cambodia|kampuchea`, "Cambodia"),
	newRule(`indonesia`, "Indonesia"),
	newRule(`\blaos\b|lao\s?pdr`, "Laos"),
	newRule(`malaysia`, "Malaysia"),
	newRule(`myanmar|burma`, "Myanmar"),
	newRule(`philippines`, "Philippines"),
	newRule(`singapore`, "Singapore"),
	newRule(`thailand`, "Thailand"),
	newRule(`timor[-\s]?leste|east\s*timor`, "Timor-Leste"),
	newRule(`viet\s*nam|vietnam`, "Vietnam"),

	newRule(`\bindia\b`, "India"),
	newRule(`pakistan`, "Pakistan"),
	newRule(`bangladesh`, "Bangladesh"),
	newRule(`sri\s*-?\s*lanka`, "Sri Lanka"),
	newRule(`nepal`, "Nepal"),
	newRule(`bhutan`, "Bhutan"),
	newRule(`maldives`, "Maldives"),
	newRule(`afghanistan`, "Afghanistan"),

	newRule(`kazakhstan`, "Kazakhstan"),
	newRule(`uzbekistan`, "Uzbekistan"),
	newRule(`kyrgyzstan|kirghiz`, "Kyrgyzstan"),
	newRule(`tajikistan`, "Tajikistan"),
	newRule(`turkmenistan`, "Turkmenistan"),

	newRule(`\buae\b|united\s*arab\s*emirates`, "United Arab Emirates"),
	newRule(`\bksa\b|saudi\s*arabia`, "Saudi Arabia"),
	newRule(`qatar`, "Qatar"),
	newRule(`\boman(i)?\b`, "Oman"),
	newRule(`bahrain`, "Bahrain"),
	newRule(`kuwait`, "Kuwait"),
	newRule(`\bjordan(ian)?\b`, "Jordan"),
	newRule(`lebanon`, "Lebanon"),
	newRule(`israel`, "Israel"),
	newRule(`palestin(e|ian)`, "Palestine"),
	newRule(`\biran(ian)?\b`, "Iran"),
	newRule(`\biraq(i)?\b`, "Iraq"),
	newRule(`turkiye|türkiye|turkey`, "Turkey"),
	newRule(`syria`, "Syria"),
	newRule(`yemen`, "Yemen"),
	newRule(`georgia`, "Georgia").
		unlessFollowedBy(`\s*\(?\s*(u\.?s\.?a?\.?\s*)?state|,?\s*(usa|us|u\.s\.?)\b`).
		unlessPrecededBy(`atlanta,?\s*|savannah,?\s*|university\s+of\s+`),
	newRule(`armenia`, "Armenia"),
	newRule(`azerbaijan`, "Azerbaijan"),
}

// cityHints catch postings that name a city or province but no country.
var cityHints = []rule{
	newRule(`kowloon|new territories|sha tin|tsim sha tsui|wan chai`, "Hong Kong SAR"),
	newRule(`\btaipa\b|\bcotai\b`, "Macao SAR"),
	newRule(`shanghai|beijing|shenzhen|guangzhou|hangzhou|chengdu|suzhou|nanjing|wuhan|tianjin|`+
		`chongqing|\bxi'?an\b|qingdao|xiamen|ningbo|dalian|shenyang|kunming|changsha|zhengzhou|foshan|dongguan|`+
		`guangdong|jiangsu|zhejiang|sichuan|shandong|fujian|hainan|yunnan`, "China"),
	newRule(`taipei|kaohsiung|taichung|hsinchu|tainan`, "Taiwan"),
	newRule(`tokyo|osaka|kyoto|yokohama|nagoya|fukuoka|sapporo|\bkobe\b|okinawa|hiroshima`, "Japan"),
	newRule(`seoul|busan|incheon|daegu|daejeon|gwangju|\bjeju\b|songdo|pangyo`, "South Korea"),
	newRule(`pyongyang`, "North Korea"),
	newRule(`ulaanbaatar|ulan bator`, "Mongolia"),

	newRule(`bandar seri begawan`, "Brunei"),
	newRule(`phnom penh|siem reap`, "Cambodia"),
	newRule(`jakarta|\bbali\b|surabaya|bandung|yogyakarta|tangerang`, "Indonesia"),
	newRule(`vientiane`, "Laos"),
	newRule(`kuala lumpur|penang|johor|selangor|putrajaya|cyberjaya|\bsabah\b|sarawak`, "Malaysia"),
	newRule(`yangon|rangoon|mandalay`, "Myanmar"),
	newRule(`manila|\bcebu\b|makati|taguig|quezon city|davao`, "Philippines"),
	newRule(`bangkok|chiang mai|phuket|pattaya`, "Thailand"),
	newRule(`\bdili\b`, "Timor-Leste"),
	newRule(`hanoi|ha noi|ho chi minh|saigon|da nang|danang|hai phong`, "Vietnam"),

	newRule(`new delhi|\bdelhi\b|mumbai|bangalore|bengaluru|chennai|hyderabad|kolkata|\bpune\b|gurgaon|gurugram|noida|ahmedabad`, "India"),
	newRule(`karachi|lahore|islamabad|rawalpindi|peshawar`, "Pakistan"),
	newRule(`dhaka|chittagong|chattogram`, "Bangladesh"),
	newRule(`colombo|kandy`, "Sri Lanka"),
	newRule(`kathmandu|pokhara`, "Nepal"),
	newRule(`thimphu`, "Bhutan"),
	newRule(`kabul|herat`, "Afghanistan"),

	newRule(`almaty|astana|nur-sultan|shymkent`, "Kazakhstan"),
	newRule(`tashkent|samarkand|bukhara`, "Uzbekistan"),
	newRule(`bishkek`, "Kyrgyzstan"),
	newRule(`dushanbe`, "Tajikistan"),
	newRule(`ashgabat`, "Turkmenistan"),

	newRule(`dubai|abu dhabi|sharjah|ajman|ras al khaimah|al ain`, "United Arab Emirates"),
	newRule(`riyadh|jeddah|dammam|khobar|mecca|makkah|medina|madinah|neom`, "Saudi Arabia"),
	newRule(`\bdoha\b`, "Qatar"),
	newRule(`muscat|salalah`, "Oman"),
	newRule(`manama`, "Bahrain"),
	newRule(`\bamman\b`, "Jordan"),
	newRule(`beirut`, "Lebanon"),
	newRule(`tel aviv|jerusalem|haifa`, "Israel"),
	newRule(`ramallah|\bgaza\b|west bank`, "Palestine"),
	newRule(`tehran|isfahan|shiraz`, "Iran"),
	newRule(`baghdad|\berbil\b|basra|sulaymaniyah`, "Iraq"),
	newRule(`istanbul|ankara|izmir|antalya`, "Turkey"),
	newRule(`damascus|aleppo`, "Syria"),
	newRule(`sana'?a\b|\baden\b`, "Yemen"),
	newRule(`tbilisi|batumi`, "Georgia"),
	newRule(`yerevan`, "Armenia"),
	newRule(`\bbaku\b`, "Azerbaijan"),
}

// tldHints map country-code top-level domains of a posting URL host. Second
// level academic domains (.edu.hk, .ac.jp) end in the same code.
var tldHints = []struct {
	tld   string
	label string
}{
	{"hk", "Hong Kong SAR"}, {"mo", "Macao SAR"}, {"cn", "China"}, {"tw", "Taiwan"},
	{"jp", "Japan"}, {"kr", "South Korea"}, {"kp", "North Korea"}, {"mn", "Mongolia"},
	{"bn", "Brunei"}, {"kh", "Cambodia"}, {"id", "Indonesia"}, {"la", "Laos"},
	{"my", "Malaysia"}, {"mm", "Myanmar"}, {"ph", "Philippines"}, {"sg", "Singapore"},
	{"th", "Thailand"}, {"tl", "Timor-Leste"}, {"vn", "Vietnam"},
	{"in", "India"}, {"pk", "Pakistan"}, {"bd", "Bangladesh"}, {"lk", "Sri Lanka"},
	{"np", "Nepal"}, {"bt", "Bhutan"}, {"mv", "Maldives"}, {"af", "Afghanistan"},
	{"kz", "Kazakhstan"}, {"uz", "Uzbekistan"}, {"kg", "Kyrgyzstan"}, {"tj", "Tajikistan"},
	{"tm", "Turkmenistan"},
	{"ae", "United Arab Emirates"}, {"sa", "Saudi Arabia"}, {"qa", "Qatar"}, {"om", "Oman"},
	{"bh", "Bahrain"}, {"kw", "Kuwait"}, {"jo", "Jordan"}, {"lb", "Lebanon"}, {"il", "Israel"},
	{"ps", "Palestine"}, {"ir", "Iran"}, {"iq", "Iraq"}, {"tr", "Turkey"}, {"sy", "Syria"},
	{"ye", "Yemen"}, {"ge", "Georgia"}, {"am", "Armenia"}, {"az", "Azerbaijan"},
}

// Country infers the country of a posting. The text fields are joined in the
// order country, location, city, school, title, description and the pattern
// table is tried rule by rule against the whole text, so table order decides
// between two countries named in different fields. City hints follow over the
// same text, then the URL's country-code domain. When nothing matches, the
// explicit country or else the location is returned as typed.
func Country(j model.Job) string {
	text := joinFields(j.Country, j.Location, j.City, j.School, j.Title, j.Description)
	for _, table := range [][]rule{countryRules, cityHints} {
		if label := firstMatch(table, text); label != "" {
			return label
		}
	}
	for _, u := range []string{j.OriginalURL, j.ApplyURL} {
		if label := CountryFromURL(u); label != "" {
			return label
		}
	}
	if c := strings.TrimSpace(j.Country); c != "" {
		return c
	}
	return strings.TrimSpace(j.Location)
}

// CountryFromURL maps the host's country-code domain to a curated country.
func CountryFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	dot := strings.LastIndexByte(host, '.')
	if dot < 0 {
		return ""
	}
	tld := host[dot+1:]
	for _, h := range tldHints {
		if h.tld == tld {
			return h.label
		}
	}
	return ""
}

func joinFields(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = prepare(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}
