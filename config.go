package siteask

import "time"

// Config is the pipeline context shared by every component. It is built
// once at startup and passed explicitly.
type Config struct {
	// Domain is the only web domain evidence may come from.
	Domain Domain

	// Organization is the human-readable name used in prompts and messages.
	Organization string

	// Contact is appended to user-facing failure messages.
	Contact string

	Vocabulary    Vocabulary
	LocalLanguage LocalLanguage

	// MaxLinks caps the number of candidate links processed per question.
	MaxLinks int

	// MaxContentLength caps the characters kept per ContentSource.
	MaxContentLength int

	// MinSourceLength drops sources whose trimmed content is not longer.
	MinSourceLength int

	// MinPDFTextLength is the quality gate below which a PDF is OCRed.
	MinPDFTextLength int

	// OCRPages caps how many leading pages are OCRed.
	OCRPages int

	// OCRLanguages are recognition language codes (e.g., "eng", "tur").
	OCRLanguages []string

	// MaxDownloadBytes caps PDF downloads.
	MaxDownloadBytes int64

	// SeedPaths are crawled, relative to the domain root, when search
	// yields nothing.
	SeedPaths []string

	CacheTTL        time.Duration
	FetchTimeout    time.Duration
	DownloadTimeout time.Duration
}

// DefaultConfig returns the configuration for Final International University.
func DefaultConfig() Config {
	return Config{
		Domain:       "final.edu.tr",
		Organization: "Final International University",
		Contact:      "+90 392 630 1000 or info@final.edu.tr",
		Vocabulary: Vocabulary{
			MinLength: 3,
			Keywords: []string{
				"final international university", "fiu", "final university", "final üniversitesi",
				"final uluslararası üniversitesi", "university", "campus", "tuition", "fees",
				"admission", "program", "course", "faculty", "student", "academic", "degree",
				"bachelor", "master", "doctorate", "phd", "enrollment", "scholarship",
				"dormitory", "library", "laboratory", "girne", "cyprus", "kıbrıs",
			},
			AcademicTerms: []string{"study", "education", "learn", "program", "course", "degree"},
		},
		LocalLanguage: LocalLanguage{
			Tag:     "tr",
			Markers: []string{"nedir", "nasıl", "ne", "üniversite", "öğrenci", "ders", "fakülte"},
		},
		MaxLinks:         8,
		MaxContentLength: 8000,
		MinSourceLength:  50,
		MinPDFTextLength: 100,
		OCRPages:         3,
		OCRLanguages:     []string{"eng", "tur"},
		MaxDownloadBytes: 50 << 20,
		SeedPaths: []string{
			"/", "/en", "/en/admissions", "/en/academics", "/en/programs",
			"/en/student-life", "/en/fees", "/tr", "/tr/ogrenci-isci",
			"/tr/akademik", "/tr/programlar",
		},
		CacheTTL:        time.Hour,
		FetchTimeout:    30 * time.Second,
		DownloadTimeout: 30 * time.Second,
	}
}

// InvalidQuestionMessage is the answer returned for rejected questions.
func (c Config) InvalidQuestionMessage() string {
	return "Please ask a question related to " + c.Organization + ". I can help with admissions, programs, fees, campus life and more using official information from " + c.Domain.Host() + "."
}

// NotFoundMessage is the answer returned when no candidate links were found.
func (c Config) NotFoundMessage() string {
	return "I couldn't find specific information about your question on the official " + c.Organization + " website (" + c.Domain.Host() + "). Please try rephrasing your question or contact the university directly at " + c.Contact + " for assistance."
}

// NoContentMessage is the answer returned when links were found but none
// yielded usable content.
func (c Config) NoContentMessage() string {
	return "I couldn't extract meaningful content from the available " + c.Domain.Host() + " sources. Please try asking a more specific question about " + c.Organization + " or contact the university directly at " + c.Contact + "."
}

// FailureMessage is the answer returned when answer generation fails.
func (c Config) FailureMessage() string {
	return "I encountered an error while processing your question from " + c.Domain.Host() + ". Please try again in a moment or contact the university directly at " + c.Contact + "."
}

// SourceRestriction is the provenance note attached to answered responses.
func (c Config) SourceRestriction() string {
	return "Information extracted exclusively from " + c.Domain.Host()
}
