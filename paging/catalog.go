package paging

// AlgorithmInfo describes a replacement algorithm for people comparing them.
type AlgorithmInfo struct {
	Name           string `json:"name"`
	Title          string `json:"title"`
	Policy         string `json:"policy"`
	Implementation string `json:"implementation"`
	Strength       string `json:"strength"`
	BeladyAnomaly  bool   `json:"belady_anomaly"`
	Overhead       string `json:"overhead"`
}

var catalog = []AlgorithmInfo{
	{
		Name:           "fifo",
		Title:          "First In, First Out",
		Policy:         "Replaces oldest page",
		Implementation: "Queue of resident pages in arrival order",
		Strength:       "Good for sequential access",
		BeladyAnomaly:  true,
		Overhead:       "low",
	},
	{
		Name:           "lru",
		Title:          "Least Recently Used",
		Policy:         "Replaces least recently used page",
		Implementation: "Last-reference step for every resident page",
		Strength:       "Good for temporal locality",
		BeladyAnomaly:  false,
		Overhead:       "medium",
	},
	{
		Name:           "lfu",
		Title:          "Least Frequently Used",
		Policy:         "Replaces least frequently used page",
		Implementation: "Reference counter for every resident page",
		Strength:       "Good for stable access patterns",
		BeladyAnomaly:  true,
		Overhead:       "medium",
	},
	{
		Name:           "optimal",
		Title:          "Optimal (Belady's MIN)",
		Policy:         "Replaces page that won't be used for the longest time",
		Implementation: "Lookahead over the remaining references at every fault",
		Strength:       "Optimal under perfect knowledge",
		BeladyAnomaly:  false,
		Overhead:       "high",
	},
}

// Catalog returns the descriptions of the built-in algorithms in canonical
// order.
func Catalog() []AlgorithmInfo {
	c := make([]AlgorithmInfo, len(catalog))
	copy(c, catalog)

	return c
}

// InfoOf returns the description of a strategy.
func InfoOf(s Strategy) (AlgorithmInfo, bool) {
	for _, info := range catalog {
		if info.Name == s.Name() {
			return info, true
		}
	}

	return AlgorithmInfo{}, false
}
