package harness

import (
	"go/parser"
	"go/token"
	"strings"
)

// Grading category names and their weights in the aggregate score.
const (
	CategoryCodeQuality   = "code_quality"
	CategoryCompliance    = "compliance"
	CategoryFunctionality = "functionality"
	CategoryPerformance   = "performance"
	CategoryDataQuality   = "data_quality"
	CategoryErrorHandling = "error_handling"

	weightCodeQuality   = 0.15
	weightCompliance    = 0.25
	weightFunctionality = 0.25
	weightPerformance   = 0.15
	weightDataQuality   = 0.15
	weightErrorHandling = 0.05
)

// CategoryOrder is the canonical listing order for report output.
var CategoryOrder = []string{
	CategoryCodeQuality,
	CategoryCompliance,
	CategoryFunctionality,
	CategoryPerformance,
	CategoryDataQuality,
	CategoryErrorHandling,
}

// Error-handling density floors. Code quality asks for basic coverage;
// the error-handling category holds artifacts to a higher bar.
const (
	minErrChecksQuality  = 2
	minErrChecksHandling = 3
	minDeferSites        = 2
)

// sourceInsight is the pre-computed view of an artifact shared by all
// checks, so the source is parsed and counted once.
type sourceInsight struct {
	text      string
	parses    bool
	errChecks int
	defers    int
}

func inspect(src string) sourceInsight {
	_, err := parser.ParseFile(token.NewFileSet(), "artifact.go", src, 0)
	return sourceInsight{
		text:      src,
		parses:    err == nil,
		errChecks: strings.Count(src, "if err != nil"),
		defers:    strings.Count(src, "defer "),
	}
}

// check is one static inspection. The issue text is reported when the
// inspection fails.
type check struct {
	issue  string
	passes func(in sourceInsight) bool
}

// anyOf passes when at least one marker appears in the source.
func anyOf(markers ...string) func(sourceInsight) bool {
	return func(in sourceInsight) bool {
		for _, m := range markers {
			if strings.Contains(in.text, m) {
				return true
			}
		}
		return false
	}
}

type categorySpec struct {
	name   string
	weight float64
	checks []check
}

// gradingCategories is the full static rubric. A category passes only
// when every check in it passes; failing checks contribute their issue
// text to the report.
var gradingCategories = []categorySpec{
	{
		name:   CategoryCodeQuality,
		weight: weightCodeQuality,
		checks: []check{
			{
				issue:  "source does not parse as Go",
				passes: func(in sourceInsight) bool { return in.parses },
			},
			{
				issue:  "no fetch capability (collector or browser) present",
				passes: anyOf("colly.NewCollector(", "rod.New()"),
			},
			{
				issue:  "no HTML parsing capability present",
				passes: anyOf("goquery", ".OnHTML("),
			},
			{
				issue: "insufficient error handling coverage",
				passes: func(in sourceInsight) bool {
					return in.errChecks >= minErrChecksQuality
				},
			},
		},
	},
	{
		name:   CategoryCompliance,
		weight: weightCompliance,
		checks: []check{
			{
				issue:  "no rate-limiting construct found",
				passes: anyOf("LimitRule{", "crawlDelay"),
			},
			{
				issue:  "outbound requests carry no operator contact",
				passes: anyOf("+https://", "mailto:"),
			},
			{
				issue:  "no data-minimization (content truncation) evidence",
				passes: anyOf("scraperkit.Truncate(", "maxContentRunes"),
			},
			{
				issue:  "no non-commercial use declaration",
				passes: anyOf("non-commercial"),
			},
		},
	},
	{
		name:   CategoryFunctionality,
		weight: weightFunctionality,
		checks: []check{
			{
				issue:  "no persistence-layer integration",
				passes: anyOf("sql.Open("),
			},
			{
				issue:  "no duplicate detection before storage",
				passes: anyOf("ON CONFLICT", "Fingerprint"),
			},
			{
				issue:  "no link extraction from listings",
				passes: anyOf("linkSelector", `Attr("href")`),
			},
			{
				issue:  "no publication date parsing",
				passes: anyOf("scraperkit.ParseDate"),
			},
			{
				issue:  "no URL normalization",
				passes: anyOf("NormalizeURL("),
			},
		},
	},
	{
		name:   CategoryPerformance,
		weight: weightPerformance,
		checks: []check{
			{
				issue:  "no request timeout configured",
				passes: anyOf("SetRequestTimeout(", "pageLoadTimeout"),
			},
			{
				issue: "resources not released on exit paths",
				passes: func(in sourceInsight) bool {
					return in.defers >= minDeferSites
				},
			},
			{
				issue:  "article volume unbounded",
				passes: anyOf("maxArticles"),
			},
			{
				issue:  "no storage session lifecycle management",
				passes: anyOf("db.Close()"),
			},
		},
	},
	{
		name:   CategoryDataQuality,
		weight: weightDataQuality,
		checks: []check{
			{
				issue:  "no validation gate before persistence",
				passes: anyOf("acceptArticle("),
			},
			{
				issue:  "no text normalization or entity decoding",
				passes: anyOf("scraperkit.Text(", "scraperkit.CleanText(", "charset"),
			},
			{
				issue:  "no sanitization or summary shaping",
				passes: anyOf("scraperkit.Summary(", "scraperkit.Sanitize("),
			},
			{
				issue:  "persistence call is not parameterized",
				passes: anyOf("VALUES (?"),
			},
		},
	},
	{
		name:   CategoryErrorHandling,
		weight: weightErrorHandling,
		checks: []check{
			{
				issue: "too few fault-isolation constructs",
				passes: func(in sourceInsight) bool {
					return in.errChecks >= minErrChecksHandling
				},
			},
			{
				issue:  "no graceful skip path for bad pages",
				passes: anyOf("continue", "log.Debug("),
			},
			{
				issue:  "failures are not logged with context",
				passes: anyOf("zap.Error("),
			},
			{
				issue: "no guaranteed cleanup path",
				passes: func(in sourceInsight) bool {
					return in.defers >= 1
				},
			},
		},
	},
}
