package weather

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/fetch"
)

// SOAP actions of the NDFD service.
const (
	ActionLatLon   = "LatLonListZipCode"
	ActionForecast = "NDFDgenByDay"
)

// SOAPCaller is the part of fetch.Client the weather source uses.
type SOAPCaller interface {
	SOAP(ctx context.Context, endpoint, namespace, action string, params []fetch.Param) ([]byte, error)
}

// Service addresses one NDFD SOAP endpoint.
type Service struct {
	Client    SOAPCaller
	Endpoint  string
	Namespace string
}

// LatLon looks up the DWML document holding the coordinates of a zip code.
func (s *Service) LatLon(ctx context.Context, zip string) ([]byte, error) {
	return s.Client.SOAP(ctx, s.Endpoint, s.Namespace, ActionLatLon, []fetch.Param{
		{Name: "zipCodeList", Value: zip},
	})
}

// Forecast requests a 12-hourly forecast of days days starting at start.
func (s *Service) Forecast(ctx context.Context, lat, lon float64, start time.Time, days int) ([]byte, error) {
	return s.Client.SOAP(ctx, s.Endpoint, s.Namespace, ActionForecast, []fetch.Param{
		{Name: "latitude", Value: strconv.FormatFloat(lat, 'f', -1, 64)},
		{Name: "longitude", Value: strconv.FormatFloat(lon, 'f', -1, 64)},
		{Name: "startDate", Value: start.Format("2006-01-02") + "Z"},
		{Name: "numDays", Value: strconv.Itoa(days)},
		{Name: "format", Value: "12 hourly"},
	})
}

// ParseLatLon reads the first "lat,lon" pair of a latLonList document. A
// missing list means the zip code is unknown to the service.
func ParseLatLon(payload []byte) (lat, lon float64, err error) {
	var doc dwml
	if err := fetch.DecodeXML(payload, &doc); err != nil {
		return 0, 0, &apperr.ParseError{Source: "latLonList", Err: err}
	}
	fields := strings.Fields(doc.LatLonList)
	if len(fields) == 0 {
		return 0, 0, apperr.Argumentf("unable to find latitude/longitude, bad zip code?")
	}
	coords := strings.Split(fields[0], ",")
	if len(coords) != 2 {
		return 0, 0, apperr.Parsef("latLonList", "malformed pair %q", fields[0])
	}
	if lat, err = strconv.ParseFloat(coords[0], 64); err != nil {
		return 0, 0, &apperr.ParseError{Source: "latLonList", Err: err}
	}
	if lon, err = strconv.ParseFloat(coords[1], 64); err != nil {
		return 0, 0, &apperr.ParseError{Source: "latLonList", Err: err}
	}
	return lat, lon, nil
}
