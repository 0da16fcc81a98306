package bank

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Major is a top-level study area served by the platform.
type Major string

const (
	Finance Major = "finance"
	Law     Major = "law"
	Biomed  Major = "biomed"
)

// Majors lists the served study areas.
var Majors = []Major{Finance, Law, Biomed}

// ParseMajor normalizes a major string. Returns false for unknown values.
func ParseMajor(s string) (Major, bool) {
	switch strings.ToLower(s) {
	case "finance":
		return Finance, true
	case "law":
		return Law, true
	case "biomed":
		return Biomed, true
	}
	return "", false
}

// corpusDirs maps each major to its corpus subdirectory name.
var corpusDirs = map[Major]string{
	Finance: "Finance Questions",
	Law:     "Law Questions",
	Biomed:  "Biomed Questions",
}

// subjectAliases maps known filenames (lowercased, extension stripped) to
// their canonical subject keys. Filenames in the corpus carry historical
// quirks (typos, abbreviations) that the generic normalization cannot fix,
// so the known ones are pinned here as configuration.
var subjectAliases = map[string]string{
	"introductory personal finance":            "introductory_personal_finance",
	"pof questions":                            "principles_of_finance",
	"priniciples of management":                "principles_of_management",
	"quantitative methods 2":                   "quantitative_methods_2",
	"accounting for commercial lawyers":        "accounting_for_commercial_lawyers",
	"company takeovers":                        "company_takeovers",
	"corporate governance & directors' duties": "corporate_governance_directors_duties",
	"principles of corporate law":              "principles_of_corporate_law",
	"biomed test":                              "biomedical_fundamentals",
}

// SubjectKey converts a corpus filename (without extension) to its subject
// key: the pinned alias when one exists, otherwise lowercased with spaces
// replaced by underscores and &/' stripped.
func SubjectKey(name string) string {
	n := strings.ToLower(name)
	if key, ok := subjectAliases[n]; ok {
		return key
	}
	n = strings.ReplaceAll(n, " ", "_")
	n = strings.NewReplacer("&", "", "'", "").Replace(n)
	return n
}

// ErrNotFound is returned when a subject, difficulty, or index does not
// resolve to a question.
var ErrNotFound = errors.New("question not found")

// Repository is the process-wide read-only question bank. It is built once
// at startup and never mutated, so it needs no synchronization.
type Repository struct {
	banks map[Major]map[string]*Bucketed
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	banks := make(map[Major]map[string]*Bucketed, len(Majors))
	for _, m := range Majors {
		banks[m] = make(map[string]*Bucketed)
	}
	return &Repository{banks: banks}
}

// LoadDir reads all .txt corpus files under root's per-major subdirectories.
// A missing subdirectory or unreadable file skips that subject with a log
// line; it is never fatal.
func LoadDir(root string) (*Repository, error) {
	repo := NewRepository()

	for _, major := range Majors {
		dir := filepath.Join(root, corpusDirs[major])
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Printf("[BANK] %s corpus directory not found: %s", major, dir)
			continue
		}

		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
				continue
			}
			path := filepath.Join(dir, e.Name())
			content, err := os.ReadFile(path)
			if err != nil {
				log.Printf("[BANK] skipping %s: %v", path, err)
				continue
			}

			subject := SubjectKey(strings.TrimSuffix(e.Name(), ".txt"))
			b := Parse(string(content), subject)
			repo.banks[major][subject] = b
			log.Printf("[BANK] loaded %d questions for %s/%s", b.Total(), major, subject)
		}
	}

	return repo, nil
}

// Add registers a parsed subject bucket. Used by tests and by custom loaders.
func (r *Repository) Add(major Major, subject string, b *Bucketed) {
	r.banks[major][subject] = b
}

// Question resolves one question by subject, difficulty, and 0-based index.
// The returned payload's number field is index+1, matching the position the
// identity encodes.
func (r *Repository) Question(major Major, subject, difficulty string, index int) (Question, error) {
	d, ok := ParseDifficulty(difficulty)
	if !ok {
		return Question{}, fmt.Errorf("%w: difficulty %q", ErrNotFound, difficulty)
	}
	b, ok := r.banks[major][subject]
	if !ok {
		return Question{}, fmt.Errorf("%w: subject %q", ErrNotFound, subject)
	}
	qs := b.Bucket(d)
	if index < 0 || index >= len(qs) {
		return Question{}, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	return qs[index], nil
}

// HasSubject reports whether the major has the subject loaded.
func (r *Repository) HasSubject(major Major, subject string) bool {
	_, ok := r.banks[major][subject]
	return ok
}

// Subjects returns the sorted subject keys loaded for a major.
func (r *Repository) Subjects(major Major) []string {
	keys := make([]string, 0, len(r.banks[major]))
	for k := range r.banks[major] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SubjectCount returns the number of loaded subjects across all majors,
// reported by the health endpoint.
func (r *Repository) SubjectCount() int {
	n := 0
	for _, m := range Majors {
		n += len(r.banks[m])
	}
	return n
}
