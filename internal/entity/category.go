package entity

// Category is the fixed set of advert categories. Every aggregation endpoint
// returns adverts bucketed by these nine keys; an advert whose stored category
// is not one of them is dropped from bucketed responses.
type Category string

const (
	CategoryRealty      Category = "realty"
	CategoryAvto        Category = "avto"
	CategoryWork        Category = "work"
	CategoryServices    Category = "services"
	CategoryChildren    Category = "children"
	CategoryElectronics Category = "electronics"
	CategoryFashion     Category = "fashion"
	CategoryHouseGarden Category = "house_garden"
	CategoryFree        Category = "free"
)

func Categories() []Category {
	return []Category{
		CategoryRealty,
		CategoryAvto,
		CategoryWork,
		CategoryServices,
		CategoryChildren,
		CategoryElectronics,
		CategoryFashion,
		CategoryHouseGarden,
		CategoryFree,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryRealty, CategoryAvto, CategoryWork, CategoryServices,
		CategoryChildren, CategoryElectronics, CategoryFashion,
		CategoryHouseGarden, CategoryFree:
		return true
	}
	return false
}

// NewCategoryBuckets returns a map with all nine category keys present and
// empty (non-nil) slices, so JSON responses always carry every key.
func NewCategoryBuckets() map[Category][]*Advert {
	buckets := make(map[Category][]*Advert, len(Categories()))
	for _, c := range Categories() {
		buckets[c] = []*Advert{}
	}
	return buckets
}

// BucketByCategory partitions adverts into the fixed category map. Adverts
// with an unknown category are skipped, not reported.
func BucketByCategory(ads []*Advert) map[Category][]*Advert {
	buckets := NewCategoryBuckets()
	for _, ad := range ads {
		if _, ok := buckets[ad.Category]; ok {
			buckets[ad.Category] = append(buckets[ad.Category], ad)
		}
	}
	return buckets
}
