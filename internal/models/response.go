package models

// Answer is the decoded payload of a successful ask round trip
type Answer struct {
	Text    string
	Sources []Source
}

// UploadResult is the optional payload of a successful upload
type UploadResult struct {
	Status   string
	FileName string
}

// QAHistoryItem is one question/answer pair recorded by the server
type QAHistoryItem struct {
	Question string
	Answer   string
	Sources  []Source
}

// SourceTitles returns the distinct source titles in first-seen order
func (a *Answer) SourceTitles() []string {
	if a == nil {
		return nil
	}
	return uniqueTitles(a.Sources)
}

func uniqueTitles(sources []Source) []string {
	seen := make(map[string]bool, len(sources))
	var titles []string
	for _, s := range sources {
		if s.Title == "" || seen[s.Title] {
			continue
		}
		seen[s.Title] = true
		titles = append(titles, s.Title)
	}
	return titles
}
