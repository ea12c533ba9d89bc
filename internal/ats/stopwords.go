package ats

// stopWords are never treated as skills by the heuristic, fallback or
// residual passes. Vocabulary hits are not filtered.
var stopWords = toSet(
	// articles, pronouns, conjunctions, prepositions
	"a", "an", "the", "and", "or", "but", "nor", "so", "yet", "for", "of", "to", "in",
	"on", "at", "by", "with", "from", "into", "onto", "over", "under", "about", "as",
	"per", "via", "than", "then", "i", "me", "my", "we", "our", "us", "you", "your",
	"he", "she", "they", "them", "their", "it", "its", "this", "that", "these", "those",
	"who", "whom", "which", "what", "when", "where", "why", "how", "all", "any", "each",
	"both", "few", "more", "most", "other", "some", "such", "no", "not", "only", "own",
	"same", "too", "very", "can", "will", "just", "also", "etc", "eg", "ie",
	// auxiliary and filler verbs
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do",
	"does", "did", "should", "would", "could", "may", "might", "must", "shall",
	"looking", "seeking", "join", "work", "working", "worked", "build", "building",
	"built", "use", "using", "used", "strong", "good", "great", "excellent", "new",
	"ability", "able", "knowledge", "understanding", "familiarity", "plus", "nice",
	"preferred", "required", "requirements", "responsibilities", "including",
	// resume and posting structure
	"resume", "summary", "profile", "objective", "skills", "skill", "education",
	"experience", "experiences", "experienced", "projects", "project", "contact",
	"references", "certifications", "achievements", "responsibility", "role", "roles",
	"team", "teams", "company", "position", "candidate", "candidates", "job", "years",
	"year", "yrs", "yr", "months", "month", "apply", "benefits",
	// frequent upper-case abbreviations that are not skills
	"usa", "uk", "eu", "hr", "ceo", "cto", "cfo", "coo", "vp", "mba", "phd", "bs",
	"ba", "ms", "ma", "bsc", "msc", "btech", "mtech", "gpa", "eeo", "eoe", "llc",
	"inc", "ltd", "pto", "wfh", "faq", "asap", "fyi", "tbd", "am", "pm", "usd", "inr",
)

// heuristicSuffixes mark likely technical terms such as "coffeescript",
// "nosql", "dynamodb", "sparql", "three.js" and "mlops".
var heuristicSuffixes = []string{"script", "sql", "db", "ql", ".js", "ops"}

// suffixFalsePositives end in a heuristic suffix but are ordinary words.
var suffixFalsePositives = toSet(
	"script", "transcript", "manuscript", "postscript", "descript",
	"stops", "shops", "workshops", "drops", "crops", "props", "troops", "tops",
	"laptops", "desktops", "loops", "hops", "chops", "flops", "cyclops", "bishops",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
