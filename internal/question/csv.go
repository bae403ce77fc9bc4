package question

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ImportResult summarizes a bulk CSV import.
type ImportResult struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

var headerAliases = map[string][]string{
	"subject":     {"subject"},
	"question":    {"question", "ques", "q"},
	"opta":        {"opta", "option a", "a"},
	"optb":        {"optb", "option b", "b"},
	"optc":        {"optc", "option c", "c"},
	"optd":        {"optd", "option d", "d"},
	"answer":      {"answer", "ans"},
	"difficulty":  {"difficulty", "level"},
	"explanation": {"explanation", "explain", "exp"},
}

// TemplateCSV is served for download so admins start from a valid header.
const TemplateCSV = `subject,question,optA,optB,optC,optD,answer,difficulty,explanation
Physics,Which of the following is a vector quantity?,Work,Power,Energy,Pressure,Power,Medium,Power has both magnitude and direction.
Chemistry,pH of a neutral solution at 25°C is:,0,7,14,1,7,Easy,
`

// ImportCSV parses questions from r and appends the valid, non-duplicate
// rows to the catalog. Rows with problems are reported per line and do
// not abort the rest of the file. Header matching is case-insensitive
// and tolerates common column-name variants; the answer column accepts
// a letter A-D or the exact option text.
func (s *Store) ImportCSV(r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, &ValidationError{Field: "file", Message: "CSV has no header row"}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF") // BOM
	}

	cols := make(map[string]int) // canonical field -> column index
	for idx, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		for field, aliases := range headerAliases {
			for _, alias := range aliases {
				if name == alias {
					if _, taken := cols[field]; !taken {
						cols[field] = idx
					}
				}
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return ImportResult{}, err
	}

	seen := make(map[string]struct{}, len(all))
	for _, q := range all {
		seen[dedupeKey(q.Subject, q.Question)] = struct{}{}
	}

	nextID := 1
	for _, q := range all {
		if q.ID >= nextID {
			nextID = q.ID + 1
		}
	}

	pick := func(row []string, field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var result ImportResult
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", line, err))
			result.Skipped++
			continue
		}

		subj := CanonicalSubject(pick(row, "subject"))
		if subj == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: invalid subject %q", line, pick(row, "subject")))
			result.Skipped++
			continue
		}

		text := pick(row, "question")
		options := []string{pick(row, "opta"), pick(row, "optb"), pick(row, "optc"), pick(row, "optd")}
		answerRaw := pick(row, "answer")
		if text == "" || answerRaw == "" || anyEmpty(options) {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: missing question/options/answer", line))
			result.Skipped++
			continue
		}

		answer, ok := resolveAnswer(options, answerRaw)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: answer %q does not match any option", line, answerRaw))
			result.Skipped++
			continue
		}

		key := dedupeKey(subj, text)
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}

		difficulty := pick(row, "difficulty")
		if difficulty == "" {
			difficulty = DifficultyMedium
		}

		all = append(all, Question{
			ID:          nextID,
			Subject:     subj,
			Question:    text,
			Options:     options,
			Answer:      answer,
			Difficulty:  difficulty,
			Explanation: pick(row, "explanation"),
		})
		seen[key] = struct{}{}
		nextID++
		result.Added++
	}

	if result.Added > 0 {
		if err := s.replaceAll(all); err != nil {
			return ImportResult{}, err
		}
	}
	return result, nil
}

// resolveAnswer maps a letter A-D to the matching option, or matches the
// option text itself ignoring case and extra whitespace.
func resolveAnswer(options []string, raw string) (string, bool) {
	letters := map[string]int{"a": 0, "b": 1, "c": 2, "d": 3}
	if idx, ok := letters[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return options[idx], true
	}
	want := strings.ToLower(NormalizeText(raw))
	for _, opt := range options {
		if strings.ToLower(NormalizeText(opt)) == want {
			return opt, true
		}
	}
	return "", false
}

func anyEmpty(values []string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}

func dedupeKey(subject, text string) string {
	return strings.ToLower(subject) + "\x00" + strings.ToLower(NormalizeText(text))
}
