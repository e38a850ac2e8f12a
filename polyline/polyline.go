// Package polyline implements the fixed-precision differential coordinate
// encoding used by the backend's routing provider. Each coordinate is stored
// as a signed delta from the previous one, serialized as base64-ish runs of
// 5-bit groups biased by 63, with 5 decimal places of precision.
package polyline

import "github.com/routai/routai"

const precision = 1e5

// mockData is a placeholder polyline the backend emits for routes it mocked
// out during development. It decodes to a fixed five-city ride.
const mockData = "mock_polyline_data"

var mockPath = []routai.Coordinate{
	{Lat: 51.5074, Lng: -0.1278}, // London
	{Lat: 52.2053, Lng: 0.1218},  // Cambridge
	{Lat: 52.5736, Lng: -0.2478}, // Peterborough
	{Lat: 53.3811, Lng: -1.4701}, // Sheffield
	{Lat: 53.8008, Lng: -1.5491}, // Leeds
}

// Decode converts an encoded polyline into the sequence of coordinates it
// traverses. It is pure and total: empty input yields an empty sequence.
// Deltas alternate latitude, longitude. A truncated trailing run is decoded
// from the bits present; a dangling latitude with no longitude is discarded
// rather than read past the input.
func Decode(s string) []routai.Coordinate {
	if s == "" {
		return nil
	}
	if s == mockData {
		out := make([]routai.Coordinate, len(mockPath))
		copy(out, mockPath)
		return out
	}

	var coords []routai.Coordinate
	var lat, lng int
	i := 0
	for i < len(s) {
		dlat, next := decodeDelta(s, i)
		if next >= len(s) {
			// Latitude consumed the rest of the input; no longitude follows.
			break
		}
		dlng, next2 := decodeDelta(s, next)
		lat += dlat
		lng += dlng
		coords = append(coords, routai.Coordinate{
			Lat: float64(lat) / precision,
			Lng: float64(lng) / precision,
		})
		i = next2
	}
	return coords
}

// Encode converts a coordinate sequence into its encoded polyline form.
// Decode(Encode(coords)) reproduces coords to 5 decimal places.
func Encode(coords []routai.Coordinate) string {
	var buf []byte
	var lat, lng int
	for _, c := range coords {
		clat := round(c.Lat * precision)
		clng := round(c.Lng * precision)
		buf = encodeDelta(buf, clat-lat)
		buf = encodeDelta(buf, clng-lng)
		lat, lng = clat, clng
	}
	return string(buf)
}

// decodeDelta reads one variable-length signed delta starting at index i.
// All chunks but the last have the continuation bit (0x20) set; chunks are
// reassembled in little-endian 5-bit-group order, then the zigzag mapping is
// reversed: LSB set means negate the arithmetic right shift by one.
func decodeDelta(s string, i int) (delta, next int) {
	var result, shift int
	for i < len(s) {
		b := int(s[i]) - 63
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), i
	}
	return result >> 1, i
}

func encodeDelta(buf []byte, v int) []byte {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		buf = append(buf, byte((0x20|(u&0x1f))+63))
		u >>= 5
	}
	return append(buf, byte(u+63))
}

func round(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}
