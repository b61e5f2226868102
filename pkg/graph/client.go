package graph

// GraphClient is the main client for building knowledge graphs from
// chunked documents. It controls extraction parallelism and the retry
// budget of individual extraction calls.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	parallelChunks int
	maxRetries     int
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// ParallelChunks controls how many chunks are extracted concurrently.
// MaxRetries controls how often a failing extraction call is retried
// before the chunk is given up.
type NewGraphClientParams struct {
	ParallelChunks int
	MaxRetries     int
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters.
//
// Example:
//
//	params := graph.NewGraphClientParams{
//		ParallelChunks: 3,
//		MaxRetries:     3,
//	}
//	client := graph.NewGraphClient(params)
func NewGraphClient(params NewGraphClientParams) *GraphClient {
	parallel := params.ParallelChunks
	if parallel <= 0 {
		parallel = 3
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &GraphClient{
		parallelChunks: parallel,
		maxRetries:     maxRetries,
	}
}
