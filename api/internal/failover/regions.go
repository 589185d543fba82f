package failover

// DefaultRegions is the rotation order used when no override is configured.
// "global" is the catch-all endpoint and stays last.
var DefaultRegions = []string{
	"asia-northeast1", // Tokyo
	"us-central1",     // Iowa
	"us-east1",        // South Carolina
	"us-east4",        // Northern Virginia
	"us-west1",        // Oregon
	"asia-northeast3", // Seoul
	"asia-southeast1", // Singapore
	"europe-west1",    // Belgium
	"europe-west2",    // London
	"europe-west4",    // Netherlands
	"asia-northeast2", // Osaka
	"global",
}

// OrderRegions puts primary first and keeps the rest of regions in order,
// dropping duplicates and empty entries. An empty primary leaves the order as is.
func OrderRegions(primary string, regions []string) []string {
	out := make([]string, 0, len(regions)+1)
	seen := make(map[string]struct{}, len(regions)+1)
	add := func(r string) {
		if r == "" {
			return
		}
		if _, ok := seen[r]; ok {
			return
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	add(primary)
	for _, r := range regions {
		add(r)
	}
	return out
}

// Rotation is the cursor over a fixed region list.
type Rotation struct {
	regions []string
	cursor  int
}

func NewRotation(regions []string) *Rotation {
	r := make([]string, len(regions))
	copy(r, regions)
	return &Rotation{regions: r}
}

func (r *Rotation) Len() int { return len(r.regions) }

// Current returns the region under the cursor.
func (r *Rotation) Current() string { return r.regions[r.cursor] }

// Cursor returns the index of the current region.
func (r *Rotation) Cursor() int { return r.cursor }

// Advance moves to the next region, wrapping around, and returns it.
func (r *Rotation) Advance() string {
	r.cursor = (r.cursor + 1) % len(r.regions)
	return r.regions[r.cursor]
}

// Reset goes back to the first region.
func (r *Rotation) Reset() { r.cursor = 0 }
