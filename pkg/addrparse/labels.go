package addrparse

// Label name constants for the CRF class alphabet referenced throughout
// the feature extractor. The CRF model itself is label-alphabet-agnostic
// (classes are loaded from disk as plain strings); these exist so callers
// building fixtures or tests have a single spelling to depend on.
const (
	LabelHouseNumber   = "house_number"
	LabelRoad          = "road"
	LabelUnit          = "unit"
	LabelLevel         = "level"
	LabelStaircase     = "staircase"
	LabelEntrance      = "entrance"
	LabelPOBox         = "po_box"
	LabelSuburb        = "suburb"
	LabelCityDistrict  = "city_district"
	LabelCity          = "city"
	LabelIsland        = "island"
	LabelStateDistrict = "state_district"
	LabelState         = "state"
	LabelPostcode      = "postcode"
	LabelCountryRegion = "country_region"
	LabelCountry       = "country"
	LabelWorldRegion   = "world_region"
)

// DictComponent is the bitset attached to a dictionary-phrase type: which
// structural roles a phrase like "ave" or "apt" can stand in for.
type DictComponent uint16

const (
	DictRoad DictComponent = 1 << iota
	DictUnit
	DictLevel
	DictPOBox
	DictEntrance
	DictStaircase
	DictHouse
	DictName
	DictCategory
)

var dictComponentOrder = []struct {
	Bit  DictComponent
	Name string
}{
	{DictRoad, "street"},
	{DictUnit, "unit"},
	{DictLevel, "level"},
	{DictPOBox, "po_box"},
	{DictEntrance, "entrance"},
	{DictStaircase, "staircase"},
	{DictHouse, "house"},
	{DictName, "name"},
	{DictCategory, "category"},
}

// Boundary is the bitset attached to a component-phrase type: which
// administrative-region roles a phrase like "brooklyn" can name.
type Boundary uint16

const (
	BoundarySuburb Boundary = 1 << iota
	BoundaryCityDistrict
	BoundaryCity
	BoundaryIsland
	BoundaryStateDistrict
	BoundaryState
	BoundaryCountryRegion
	BoundaryCountry
	BoundaryWorldRegion
)

var boundaryOrder = []struct {
	Bit  Boundary
	Name string
}{
	{BoundarySuburb, "suburb"},
	{BoundaryCityDistrict, "city_district"},
	{BoundaryCity, "city"},
	{BoundaryIsland, "island"},
	{BoundaryStateDistrict, "state_district"},
	{BoundaryState, "state"},
	{BoundaryCountryRegion, "country_region"},
	{BoundaryCountry, "country"},
	{BoundaryWorldRegion, "world_region"},
}

// ordinalToBoundary fixes the most_common_ordinal mapping the source
// material leaves ambiguous between an ordinal and a bitmask encoding for
// the same field: {0:None, 1:Suburb, ..., 9:WorldRegion}.
var ordinalToBoundary = map[uint16]Boundary{
	0: 0,
	1: BoundarySuburb,
	2: BoundaryCityDistrict,
	3: BoundaryCity,
	4: BoundaryStateDistrict,
	5: BoundaryIsland,
	6: BoundaryState,
	7: BoundaryCountryRegion,
	8: BoundaryCountry,
	9: BoundaryWorldRegion,
}

func boundaryName(b Boundary) string {
	for _, entry := range boundaryOrder {
		if entry.Bit == b {
			return entry.Name
		}
	}
	return ""
}

func popcount16(v uint16) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}
