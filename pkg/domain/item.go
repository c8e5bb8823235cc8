package domain

// FeedItem represents a single paper announced by a feed.
// Title is the identity key within a day.
type FeedItem struct {
	Title    string
	Link     string
	Abstract string
	Feed     string // name of the feed the item came from, informational only
}

// ItemSet is an ordered mapping of title to FeedItem.
// Iteration order is insertion order, the zero value is ready to use.
type ItemSet struct {
	items []FeedItem
	index map[string]int
}

// NewItemSet makes a set from the given items, later duplicates replace earlier ones in place
func NewItemSet(items ...FeedItem) ItemSet {
	var s ItemSet
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add puts the item into the set. An item with an already known title replaces
// the stored value but keeps its original position.
func (s *ItemSet) Add(item FeedItem) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if pos, ok := s.index[item.Title]; ok {
		s.items[pos] = item
		return
	}
	s.index[item.Title] = len(s.items)
	s.items = append(s.items, item)
}

// Get returns the item with the given title
func (s ItemSet) Get(title string) (FeedItem, bool) {
	pos, ok := s.index[title]
	if !ok {
		return FeedItem{}, false
	}
	return s.items[pos], true
}

// Len returns number of items
func (s ItemSet) Len() int { return len(s.items) }

// Items returns a copy of items in insertion order
func (s ItemSet) Items() []FeedItem {
	res := make([]FeedItem, len(s.items))
	copy(res, s.items)
	return res
}

// Titles returns all titles in insertion order
func (s ItemSet) Titles() []string {
	res := make([]string, len(s.items))
	for i, it := range s.items {
		res[i] = it.Title
	}
	return res
}

// Merge adds all items of other to the set
func (s *ItemSet) Merge(other ItemSet) {
	for _, it := range other.items {
		s.Add(it)
	}
}
