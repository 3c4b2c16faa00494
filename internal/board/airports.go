package board

// Airport identifies one monitored airfield.
type Airport struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// MajorAirports is the fixed set shown on the aviation weather board.
var MajorAirports = []Airport{
	{Code: "JFK", Name: "John F. Kennedy International", City: "New York", Lat: 40.6413, Lon: -73.7781},
	{Code: "LHR", Name: "Heathrow", City: "London", Lat: 51.47, Lon: -0.4543},
	{Code: "CDG", Name: "Charles de Gaulle", City: "Paris", Lat: 49.0097, Lon: 2.5479},
	{Code: "DXB", Name: "Dubai International", City: "Dubai", Lat: 25.2532, Lon: 55.3657},
	{Code: "HND", Name: "Haneda", City: "Tokyo", Lat: 35.5494, Lon: 139.7798},
	{Code: "SIN", Name: "Changi", City: "Singapore", Lat: 1.3644, Lon: 103.9915},
	{Code: "LAX", Name: "Los Angeles International", City: "Los Angeles", Lat: 33.9425, Lon: -118.4081},
	{Code: "FRA", Name: "Frankfurt", City: "Frankfurt", Lat: 50.0379, Lon: 8.5622},
	{Code: "AMS", Name: "Schiphol", City: "Amsterdam", Lat: 52.3105, Lon: 4.7683},
	{Code: "HKG", Name: "Hong Kong International", City: "Hong Kong", Lat: 22.308, Lon: 113.9185},
	{Code: "SYD", Name: "Kingsford Smith", City: "Sydney", Lat: -33.9399, Lon: 151.1753},
	{Code: "YYZ", Name: "Toronto Pearson", City: "Toronto", Lat: 43.6777, Lon: -79.6248},
	{Code: "GRU", Name: "Guarulhos", City: "São Paulo", Lat: -23.4356, Lon: -46.4731},
	{Code: "ICN", Name: "Incheon", City: "Seoul", Lat: 37.4602, Lon: 126.4407},
	{Code: "MAD", Name: "Barajas", City: "Madrid", Lat: 40.4983, Lon: -3.5676},
	{Code: "BCN", Name: "El Prat", City: "Barcelona", Lat: 41.2974, Lon: 2.0833},
	{Code: "MEX", Name: "Benito Juárez", City: "Mexico City", Lat: 19.4361, Lon: -99.0719},
	{Code: "JNB", Name: "O. R. Tambo", City: "Johannesburg", Lat: -26.1337, Lon: 28.242},
	{Code: "SVO", Name: "Sheremetyevo", City: "Moscow", Lat: 55.9726, Lon: 37.4146},
	{Code: "DME", Name: "Domodedovo", City: "Moscow", Lat: 55.4088, Lon: 37.9063},
	{Code: "IST", Name: "Istanbul Airport", City: "Istanbul", Lat: 41.2753, Lon: 28.7519},
	{Code: "ATL", Name: "Hartsfield–Jackson", City: "Atlanta", Lat: 33.6407, Lon: -84.4277},
	{Code: "ORD", Name: "O'Hare", City: "Chicago", Lat: 41.9742, Lon: -87.9073},
	{Code: "DFW", Name: "Dallas/Fort Worth", City: "Dallas", Lat: 32.8998, Lon: -97.0403},
	{Code: "DEN", Name: "Denver International", City: "Denver", Lat: 39.8561, Lon: -104.6737},
	{Code: "SFO", Name: "San Francisco", City: "San Francisco", Lat: 37.6213, Lon: -122.379},
	{Code: "SEA", Name: "Seattle-Tacoma", City: "Seattle", Lat: 47.4502, Lon: -122.3088},
	{Code: "MIA", Name: "Miami International", City: "Miami", Lat: 25.7959, Lon: -80.287},
	{Code: "BOM", Name: "Chhatrapati Shivaji", City: "Mumbai", Lat: 19.0896, Lon: 72.8656},
	{Code: "DEL", Name: "Indira Gandhi", City: "Delhi", Lat: 28.5562, Lon: 77.1},
	{Code: "BKK", Name: "Suvarnabhumi", City: "Bangkok", Lat: 13.69, Lon: 100.7501},
	{Code: "KUL", Name: "Kuala Lumpur", City: "Kuala Lumpur", Lat: 2.7456, Lon: 101.709},
	{Code: "ZRH", Name: "Zurich", City: "Zurich", Lat: 47.4647, Lon: 8.5492},
	{Code: "VIE", Name: "Vienna", City: "Vienna", Lat: 48.1103, Lon: 16.5697},
	{Code: "BRU", Name: "Brussels", City: "Brussels", Lat: 50.9014, Lon: 4.4844},
	{Code: "OSL", Name: "Gardermoen", City: "Oslo", Lat: 60.1939, Lon: 11.1004},
	{Code: "ARN", Name: "Arlanda", City: "Stockholm", Lat: 59.6519, Lon: 17.9186},
	{Code: "HEL", Name: "Helsinki", City: "Helsinki", Lat: 60.3172, Lon: 24.9633},
	{Code: "CPH", Name: "Copenhagen", City: "Copenhagen", Lat: 55.6181, Lon: 12.656},
	{Code: "DUB", Name: "Dublin", City: "Dublin", Lat: 53.4273, Lon: -6.2436},
	{Code: "LIS", Name: "Lisbon", City: "Lisbon", Lat: 38.7742, Lon: -9.1342},
	{Code: "PRG", Name: "Vaclav Havel", City: "Prague", Lat: 50.1062, Lon: 14.2669},
	{Code: "WAW", Name: "Chopin", City: "Warsaw", Lat: 52.1657, Lon: 20.9671},
	{Code: "ATH", Name: "Eleftherios Venizelos", City: "Athens", Lat: 37.9364, Lon: 23.9475},
	{Code: "SCL", Name: "Arturo Merino Benítez", City: "Santiago", Lat: -33.3929, Lon: -70.7858},
	{Code: "EZE", Name: "Ministro Pistarini", City: "Buenos Aires", Lat: -34.8222, Lon: -58.5358},
	{Code: "GIG", Name: "Galeão", City: "Rio de Janeiro", Lat: -22.8099, Lon: -43.2506},
	{Code: "LIM", Name: "Jorge Chávez", City: "Lima", Lat: -12.0219, Lon: -77.1143},
	{Code: "BOG", Name: "El Dorado", City: "Bogotá", Lat: 4.7016, Lon: -74.1469},
	{Code: "SJU", Name: "Luis Muñoz Marín", City: "San Juan", Lat: 18.4394, Lon: -66.0018},
	{Code: "CPT", Name: "Cape Town", City: "Cape Town", Lat: -33.9706, Lon: 18.6021},
	{Code: "DOH", Name: "Hamad International", City: "Doha", Lat: 25.2731, Lon: 51.6081},
}
