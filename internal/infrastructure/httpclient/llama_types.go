package httpclient

// coinPrice is one entry of the DefiLlama current-prices response.
type coinPrice struct {
	Decimals   uint8   `json:"decimals"`
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"price"`
	Timestamp  int64   `json:"timestamp"`
	Confidence float64 `json:"confidence"`
}

// priceResponse is the envelope of /prices/current. Keys are the
// "chain:address" identifiers from the request.
type priceResponse struct {
	Coins map[string]coinPrice `json:"coins"`
}
