package internal

type Variant string

const (
	VariantConvert Variant = "convert"
	VariantFilter  Variant = "filter"
	VariantImages  Variant = "images"
	VariantStrip   Variant = "strip"
)

func (v Variant) Valid() bool {
	switch v {
	case VariantConvert, VariantFilter, VariantImages, VariantStrip:
		return true
	}
	return false
}

type Rejection string

const (
	RejectIncomplete    Rejection = "incomplete"
	RejectCategory      Rejection = "category"
	RejectWarranty      Rejection = "warranty"
	RejectMissingFields Rejection = "missing_fields"
)

// Attribute keys, in output order.
var AttributeKeys = []string{
	"socket", "cores", "threads", "tdp", "ram_type", "form_factor", "memory", "speed",
	"capacity", "wattage", "efficiency", "fans", "type", "warranty",
}

type ComponentRecord struct {
	Name       string
	Category   string
	CategoryID int
	Brand      string
	Model      string
	Price      string
	ImageURL   string
	Specs      string
	Attributes map[string]string

	StockQuantity string
	MinStockLevel string
	IsActive      string
}

func (r ComponentRecord) Attr(key string) string {
	if r.Attributes == nil {
		return ""
	}
	return r.Attributes[key]
}

type RunStats struct {
	Read     int               `json:"read"`
	Accepted int               `json:"accepted"`
	Rejected map[Rejection]int `json:"rejected"`
}

func NewRunStats() RunStats {
	return RunStats{Rejected: map[Rejection]int{}}
}

func (s *RunStats) Reject(reason Rejection) {
	if s.Rejected == nil {
		s.Rejected = map[Rejection]int{}
	}
	s.Read++
	s.Rejected[reason]++
}

func (s *RunStats) Accept() {
	s.Read++
	s.Accepted++
}

func (s RunStats) RejectedTotal() int {
	total := 0
	for _, n := range s.Rejected {
		total += n
	}
	return total
}

type RunRecord struct {
	ID         int
	TraceID    string
	Variant    string
	InputPath  string
	InputHash  string
	OutputPath string
	Status     string
	Stats      RunStats
	Timings    map[string]float64
	CreatedAt  string
}
