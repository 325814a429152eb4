package intent

// ExtractEntities pulls typed entities (hospital, department, visit
// type, time frame, amount) out of a preprocessed query. For each type
// the first matching pattern wins and contributes the matched text, so
// a query naming two hospitals yields only the first.
func ExtractEntities(query string) map[string]string {
	entities := make(map[string]string)
	for _, ep := range entityPatterns {
		for _, p := range ep.Patterns {
			if m := p.FindString(query); m != "" {
				entities[ep.Type] = m
				break
			}
		}
	}
	return entities
}
