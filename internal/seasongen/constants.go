package seasongen

// Geography of the generated league: venues are spread over a box roughly
// the size of the continental United States.
const (
	minLatitude   = 30.0
	latitudeSpan  = 17.0
	minLongitude  = -120.0
	longitudeSpan = 45.0
	earthRadiusM  = 6_371_000.0
	roadFactor    = 1.25 // road distance over great-circle distance
	averageSpeed  = 25.0 // meters per second, about 90 km/h
)

// Schedule shape.
const (
	gameProbability = 0.6
)

// kickoffHours are the local hours games start at.
var kickoffHours = []int{13, 16, 19}

var cities = []string{
	"Albany", "Austin", "Boise", "Boston", "Buffalo", "Charlotte", "Chicago",
	"Columbus", "Dallas", "Denver", "Detroit", "El Paso", "Fresno", "Houston",
	"Kansas City", "Memphis", "Miami", "Nashville", "Omaha", "Phoenix",
	"Portland", "Raleigh", "Reno", "Sacramento", "Salt Lake", "Seattle",
	"St. Louis", "Tampa", "Tucson", "Tulsa",
}

var mascots = []string{
	"Owls", "Comets", "Pioneers", "Foxes", "Rangers", "Pilots", "Miners",
	"Herons", "Bison", "Mariners",
}
