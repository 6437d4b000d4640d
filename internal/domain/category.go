package domain

// Category identifies one of the six salted land-use classes.
type Category string

const (
	Commercial    Category = "Commercial"
	Industrial    Category = "Industrial"
	Institutional Category = "Institutional"
	Residential   Category = "Residential"
	RoadLocal     Category = "Road-Local"
	RoadArterial  Category = "Road-ArterialCollector"
)

// TotalCategory labels the derived whole-scenario salt mass in long-form
// output and summaries. It is never a key in land-use records or rate grids.
const TotalCategory = "Total Salt"

// NumCategories is the number of land-use categories, excluding TotalCategory.
const NumCategories = 6

// categories is the canonical order: product enumeration, result columns,
// and display all follow it.
var categories = [NumCategories]Category{
	Commercial,
	Industrial,
	Institutional,
	Residential,
	RoadLocal,
	RoadArterial,
}

var categoryIndex = func() map[Category]int {
	m := make(map[Category]int, NumCategories)
	for i, c := range categories {
		m[c] = i
	}
	return m
}()

// Categories returns the six categories in canonical order.
func Categories() [NumCategories]Category {
	return categories
}

// Index returns the canonical position of c, or false if c is not a
// recognized category.
func (c Category) Index() (int, bool) {
	i, ok := categoryIndex[c]
	return i, ok
}

// AreaBased reports whether c is a parking-type category whose rate is in
// g/m² and whose salt mass is normalized to kilograms during evaluation.
// The two roadway categories return false.
func (c Category) AreaBased() bool {
	switch c {
	case Commercial, Industrial, Institutional, Residential:
		return true
	default:
		return false
	}
}
