package content

var defaultJokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"Why did the scarecrow win an award? He was outstanding in his field!",
	"Why don't eggs tell jokes? They'd crack each other up!",
	"What do you call a fake noodle? An impasta!",
	"Why did the math book look so sad? Because it had too many problems!",
}

var defaultQuotes = []string{
	"The only way to do great work is to love what you do. - Steve Jobs",
	"Innovation distinguishes between a leader and a follower. - Steve Jobs",
	"Life is what happens to you while you're busy making other plans. - John Lennon",
	"The future belongs to those who believe in the beauty of their dreams. - Eleanor Roosevelt",
	"It is during our darkest moments that we must focus to see the light. - Aristotle",
}

var defaultFacts = []string{
	"A group of flamingos is called a 'flamboyance'.",
	"Honey never spoils. Archaeologists have found pots of honey in ancient Egyptian tombs that are over 3000 years old and still perfectly good to eat.",
	"A shrimp's heart is in its head.",
	"It's impossible to hum while holding your nose.",
	"The shortest war in history was between Britain and Zanzibar on August 27, 1896. Zanzibar surrendered after 38 minutes.",
}

// Provider serves the fixed content collections. It holds no mutable state
// and is safe for concurrent use.
type Provider struct {
	jokes  []string
	quotes []string
	facts  []string
}

// NewProvider creates a provider backed by the built-in collections
func NewProvider() *Provider {
	return NewProviderWith(defaultJokes, defaultQuotes, defaultFacts)
}

// NewProviderWith creates a provider backed by the given collections.
// The slices are copied.
func NewProviderWith(jokes, quotes, facts []string) *Provider {
	return &Provider{
		jokes:  clone(jokes),
		quotes: clone(quotes),
		facts:  clone(facts),
	}
}

// Jokes returns the first limit jokes in original order along with the size
// of the full collection. A limit of zero or less returns every joke.
func (p *Provider) Jokes(limit int) ([]string, int) {
	total := len(p.jokes)
	if limit <= 0 || limit > total {
		limit = total
	}
	return clone(p.jokes[:limit]), total
}

// Quotes returns every quote
func (p *Provider) Quotes() []string {
	return clone(p.quotes)
}

// Facts returns every fact
func (p *Provider) Facts() []string {
	return clone(p.facts)
}

func clone(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}
