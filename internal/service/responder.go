package service

import (
	"math/rand"

	"realestate/internal/utils"
)

// Topic names a response pool
type Topic string

const (
	TopicPrice    Topic = "price"
	TopicLocation Topic = "location"
	TopicProperty Topic = "property"
	TopicGeneral  Topic = "general"
	TopicFollowUp Topic = "follow_up"
)

// RandomSource draws uniform integers in [0, n)
type RandomSource interface {
	Intn(n int) int
}

type globalRand struct{}

// Intn uses the process-wide source, which is safe for concurrent use
func (globalRand) Intn(n int) int { return rand.Intn(n) }

// DefaultRandom is the source used when none is injected
var DefaultRandom RandomSource = globalRand{}

// topicKeywords is checked in order, the first matching set wins
var (
	keywordTopics = []Topic{TopicPrice, TopicLocation, TopicProperty}
	topicKeywords = [][]string{
		{"price", "cost", "budget", "expensive", "cheap"},
		{"location", "area", "neighborhood", "city", "islamabad", "lahore", "karachi"},
		{"property", "house", "apartment", "flat", "home", "buy", "rent", "sell"},
	}
)

// ResponseBank holds the canned replies of the assistant. Pools are never
// modified after construction.
type ResponseBank struct {
	pools map[Topic][]string
}

// NewResponseBank copies the given pools. Every topic needs at least one
// response.
func NewResponseBank(pools map[Topic][]string) *ResponseBank {
	b := &ResponseBank{pools: make(map[Topic][]string, len(pools))}
	for topic, responses := range pools {
		b.pools[topic] = append([]string(nil), responses...)
	}
	return b
}

// DefaultResponseBank returns the built-in replies
func DefaultResponseBank() *ResponseBank {
	return NewResponseBank(map[Topic][]string{
		TopicProperty: {
			"I found several properties matching your criteria. Would you like to see properties in a specific neighborhood?",
			"There are a few great options available! Are you looking for any specific amenities like a pool or garden?",
			"I've found some properties that might interest you. What's your preferred budget range so I can narrow down the results?",
			"Based on your preferences, I can show you 12 properties. Would you like to sort them by price or location?",
		},
		TopicPrice: {
			"Properties in that area typically range from PKR 7,500,000 to PKR 25,000,000 depending on size and amenities. What's your budget?",
			"For a 3-bedroom property in that location, prices start around PKR 12,000,000. Is that within your budget?",
			"Luxury properties in that neighborhood are priced between PKR 30,000,000 and PKR 50,000,000. Should I show you some options?",
			"There are some great affordable options starting at PKR 5,000,000. Would you like me to share more details?",
		},
		TopicLocation: {
			"That's a great area! It's close to shopping centers, parks, and has excellent schools nearby. What type of property are you looking for there?",
			"This neighborhood is trending right now with many new developments. Would you prefer an apartment or a house?",
			"That area has excellent transportation links and is very family-friendly. Are you looking for something ready to move in or open to renovation?",
			"I have several listings in that location. The area has seen 15% property value growth over the last 2 years. Would you like to know more about investment potential?",
		},
		TopicGeneral: {
			"I'm here to help with your property search! Are you looking to buy, rent, or sell?",
			"I can assist with finding properties, providing market insights, or answering questions about the buying process. What can I help with today?",
			"Would you like me to recommend properties based on your preferences? I just need to know a bit more about what you're looking for.",
			"I can help you find your dream home! What features are most important to you in a property?",
		},
		TopicFollowUp: {
			"Can I help you with anything else about your property search?",
			"Would you like me to show you some featured properties that match your criteria?",
			"Are there specific amenities you're looking for in your ideal property?",
			"What areas are you most interested in?",
			"Are you looking for a long-term investment or a home to live in?",
			"Would you like to schedule a viewing for any properties you're interested in?",
			"Have you considered financing options? I can provide some information on current mortgage rates.",
		},
	})
}

// Pool returns a copy of the responses for topic
func (b *ResponseBank) Pool(topic Topic) []string {
	return append([]string(nil), b.pools[topic]...)
}

func (b *ResponseBank) pick(topic Topic, rnd RandomSource) string {
	pool := b.pools[topic]
	if len(pool) == 0 {
		return ""
	}
	return pool[rnd.Intn(len(pool))]
}

// Responder chooses canned replies for free-text messages
type Responder struct {
	bank            *ResponseBank
	rnd             RandomSource
	followUpPercent int
}

// NewResponder creates a responder. A nil source uses DefaultRandom.
func NewResponder(bank *ResponseBank, rnd RandomSource, followUpPercent int) *Responder {
	if bank == nil {
		bank = DefaultResponseBank()
	}
	if rnd == nil {
		rnd = DefaultRandom
	}
	return &Responder{
		bank:            bank,
		rnd:             rnd,
		followUpPercent: followUpPercent,
	}
}

// Classify returns the topic for a message
func (r *Responder) Classify(text string) Topic {
	if i := utils.FirstMatchingSet(text, topicKeywords); i >= 0 {
		return keywordTopics[i]
	}
	return TopicGeneral
}

// Respond draws a reply from the pool matching the message
func (r *Responder) Respond(text string) string {
	return r.bank.pick(r.Classify(text), r.rnd)
}

// FollowUp draws a follow-up question
func (r *Responder) FollowUp() string {
	return r.bank.pick(TopicFollowUp, r.rnd)
}

// ShouldFollowUp decides whether a follow-up question is sent
func (r *Responder) ShouldFollowUp() bool {
	return r.rnd.Intn(100) < r.followUpPercent
}

// Jitter returns base plus a random amount below spread
func (r *Responder) Jitter(base, spread int) int {
	if spread <= 0 {
		return base
	}
	return base + r.rnd.Intn(spread)
}
