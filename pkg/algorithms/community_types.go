package algorithms

// Community represents a detected community
type Community struct {
	ID      int      `json:"id"`
	Nodes   []uint64 `json:"nodes"`
	Size    int      `json:"size"`
	Density float64  `json:"density"` // Edge density within community
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Communities   []*Community   `json:"communities"`
	Modularity    float64        `json:"modularity"` // Quality measure of the partitioning
	NodeCommunity map[uint64]int `json:"node_community"`
}
