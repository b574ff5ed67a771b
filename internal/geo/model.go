package geo

// Location representa cidade aproximada e coordenadas de um endereço IP.
type Location struct {
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}
