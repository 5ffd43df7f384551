package classify

import "strings"

// categoryRules is evaluated top to bottom. Leadership signals come first so
// that "Director of Marketing" lands in Senior Management rather than
// Marketing. The second rule's alternation binds loosely: any title that
// mentions recruitment, international, marketing or partnerships is Senior
// Management, and only "admissions" needs a leadership prefix. Assignments
// already in the corpus depend on that, so it is kept as is.
var categoryRules = []rule{
	newRule(`principal|head of school|headteacher|deputy head|vice principal|dean|provost|chief`, "Senior Management"),
	newRule(`director\b`, "Senior Management").
		unlessFollowedBy(`.*assistant`).
		unlessPrecededBy(`assistant\s+`),
	newRule(`(head of|director of|vp|vice president).*admissions|recruitment|international|marketing|partnerships`, "Senior Management"),
	newRule(`head of year|head of department|curriculum lead`, "K-12 Leadership"),

	newRule(`early years|eyfs`, "Early Years Teaching"),
	newRule(`(primary|elementary) (teacher|teaching)`, "Primary Teaching"),
	newRule(`(secondary|high school) (teacher|teaching)`, "Secondary Teaching"),
	newRule(`\bib\b|pyp|myp|dp`, "IB (PYP/MYP/DP)"),
	newRule(`\bigcse\b`, "IGCSE"),
	newRule(`esl|eal|ell|english language (teacher|instructor)`, "EAL / ESL"),
	newRule(`professor|lecturer|assistant professor|associate professor|post-?doc|postdoctoral`, "University Faculty"),

	newRule(`recruitment|admissions|enrol?ment|student recruitment`, "Recruitment & Admissions"),
	newRule(`international (officer|manager|relations|partnerships|engagement)|regional (manager|director)|country (manager|director)`, "International Office"),
	newRule(`agent relations|agent manager|channel manager`, "Agent Relations"),
	newRule(`tne|transnational education|articulation|dual degree|joint program|mou|partnerships`, "TNE / Partnerships"),
	newRule(`sales|partnerships|business development|bdm`, "Sales / Partnerships"),
	newRule(`alumni|advancement|fundraising`, "Alumni & Advancement"),
	newRule(`study abroad|global mobility|exchange (program|coordinator)`, "Global Mobility / Study Abroad"),

	newRule(`student services|student affairs|welfare|pastoral|wellbeing`, "Student Services & Welfare"),
	newRule(`counsellor|counselor|counselling|counseling|psycholog`, "Counselling / Pastoral"),
	newRule(`career services|careers advisor|employability`, "Career Services / Employability"),
	newRule(`scholarship|financial aid|bursary`, "Scholarships / Financial Aid"),

	newRule(`ielts|exams? officer|assessment|invigilator|test( |-)centre|testing`, "Exams & Assessment"),
	newRule(`library|librarian|learning resources`, "Library / Learning Resources"),

	newRule(`(project|programme|program) (manager|officer|coordinator)`, "Program / Project Management"),
	newRule(`administrator|admin|operations|office manager`, "Admin & Operations"),
	newRule(`finance|accountant|bursar`, "Finance"),
	newRule(`human resources|^hr\b|\shr\b|people partner`, "HR"),
	newRule(`it\b|edtech|systems?|developer|engineer`, "IT / EdTech"),
	newRule(`quality assurance|qa|accreditation|compliance|ukvi|visa`, "Quality Assurance / Compliance"),
	newRule(`crm|salesforce|hubspot|data|analytics|insight|power bi|tableau|sql`, "Data & CRM / Analytics"),
	newRule(`marketing|communications|marcom|brand`, "Marketing & Communications"),
	newRule(`digital marketing|seo|sem|ppc|social media|content|copywriter|graphic|designer|web`, "Digital Marketing"),
	newRule(`events|fair|exhibition|roadshow`, "Events"),
	newRule(`research (assistant|associate)|research fellow`, "Research"),
}

// Category infers a curated role category from a job title, or "" when no
// rule applies.
func Category(title string) string {
	return firstMatch(categoryRules, strings.ToLower(prepare(title)))
}
