package extract

// Prompt variants tried in order. The first variant that yields a parseable
// payload wins; wording differences matter because the extraction service is
// sensitive to how the schema is described.
var promptVariants = []string{
	"Extract from this senior living facility website: a one-paragraph marketing blurb describing the community, the list of services offered (as short strings), and any published pricing lines. Return JSON with keys blurb (string), services (array of strings), pricing (array of strings, optional).",
	"From the page content, identify what this elder-care provider offers. Respond as JSON: {\"blurb\": \"...\", \"services\": [\"...\"], \"pricing\": [\"...\"]}. The blurb is a short summary in the site's own words; services are care or amenity offerings; pricing is any rate or fee text found.",
	"Summarize this care facility page as JSON with fields blurb, services, pricing. Keep services to short noun phrases. Omit pricing if none is published.",
}
