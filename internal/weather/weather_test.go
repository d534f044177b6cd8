package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var edt = time.FixedZone("EDT", -4*3600)

// Thursday morning.
var testNow = time.Date(2009, 5, 28, 10, 0, 0, 0, edt)

const sampleForecast = `<?xml version="1.0"?>
<dwml version="1.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
<head><product concise-name="tabular-digital"/></head>
<data>
  <location><location-key>point1</location-key><point latitude="35.23" longitude="-80.84"/></location>
  <time-layout time-coordinate="local" summarization="24hourly">
    <layout-key>k-p24h-n4-1</layout-key>
    <start-valid-time>2009-05-28T06:00:00-04:00</start-valid-time>
    <start-valid-time>2009-05-29T06:00:00-04:00</start-valid-time>
    <start-valid-time>2009-05-30T06:00:00-04:00</start-valid-time>
    <start-valid-time>2009-05-31T06:00:00-04:00</start-valid-time>
  </time-layout>
  <time-layout time-coordinate="local" summarization="24hourly">
    <layout-key>k-p24h-n3-2</layout-key>
    <start-valid-time>2009-05-28T18:00:00-04:00</start-valid-time>
    <start-valid-time>2009-05-29T18:00:00-04:00</start-valid-time>
    <start-valid-time>2009-05-30T18:00:00-04:00</start-valid-time>
  </time-layout>
  <time-layout time-coordinate="local" summarization="12hourly">
    <layout-key>k-p12h-n7-3</layout-key>
    <start-valid-time period-name="Today">2009-05-28T06:00:00-04:00</start-valid-time>
    <start-valid-time period-name="Tonight">2009-05-28T18:00:00-04:00</start-valid-time>
    <start-valid-time period-name="Friday">2009-05-29T06:00:00-04:00</start-valid-time>
    <start-valid-time period-name="Friday Night">2009-05-29T18:00:00-04:00</start-valid-time>
    <start-valid-time period-name="Saturday">2009-05-30T06:00:00-04:00</start-valid-time>
    <start-valid-time period-name="Saturday Night">2009-05-30T18:00:00-04:00</start-valid-time>
    <start-valid-time period-name="Sunday">2009-05-31T06:00:00-04:00</start-valid-time>
  </time-layout>
  <parameters applicable-location="point1">
    <temperature type="maximum" units="Fahrenheit" time-layout="k-p24h-n4-1">
      <name>Daily Maximum Temperature</name>
      <value>81</value><value>75</value><value xsi:nil="true"/><value>70</value>
    </temperature>
    <temperature type="minimum" units="Fahrenheit" time-layout="k-p24h-n3-2">
      <name>Daily Minimum Temperature</name>
      <value>60</value><value>58</value><value>55</value>
    </temperature>
    <probability-of-precipitation type="12 hour" units="percent" time-layout="k-p12h-n7-3">
      <value>20</value><value>10</value><value>40</value><value>30</value><value>5</value><value>0</value><value>60</value>
    </probability-of-precipitation>
    <weather time-layout="k-p12h-n7-3">
      <name>Weather Type, Coverage, and Intensity</name>
      <weather-conditions weather-summary="Chance Rain Showers">
        <value coverage="chance" intensity="light" weather-type="rain showers" qualifier="none"/>
        <value coverage="isolated" intensity="none" additive="and" weather-type="thunderstorms" qualifier="none"/>
      </weather-conditions>
      <weather-conditions weather-summary="Mostly Clear"/>
      <weather-conditions weather-summary="Partly Cloudy"><value xsi:nil="true"/></weather-conditions>
      <weather-conditions/>
      <weather-conditions weather-summary="Sunny"/>
      <weather-conditions weather-summary=""/>
      <weather-conditions weather-summary="Chance Thunderstorms">
        <value coverage="chance" intensity="none" weather-type="THUNDERSTORMS" qualifier="none"/>
      </weather-conditions>
    </weather>
  </parameters>
</data>
</dwml>`

var testColors = Colors{Day: "200", Night: "002", Plain: "120"}

func TestClassifyNightBoundary(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		ts := time.Date(2009, 5, 29, hour, 0, 0, 0, edt)
		got := Classify(ts, testNow, 16)
		if got.Night != (hour >= 16) {
			t.Errorf("hour %d: night = %v", hour, got.Night)
		}
		if got.Day != "Friday" {
			t.Errorf("hour %d: day = %q, want Friday", hour, got.Day)
		}
	}
	almost := time.Date(2009, 5, 29, 15, 59, 59, 0, edt)
	assert.False(t, Classify(almost, testNow, 16).Night)
}

func TestClassifyToday(t *testing.T) {
	// Same calendar date maps to Today even a week later by weekday.
	assert.Equal(t, Period{Day: Today}, Classify(time.Date(2009, 5, 28, 6, 0, 0, 0, edt), testNow, 16))
	assert.Equal(t, Period{Day: Today, Night: true}, Classify(time.Date(2009, 5, 28, 18, 0, 0, 0, edt), testNow, 16))
	assert.Equal(t, Period{Day: "Thursday"}, Classify(time.Date(2009, 6, 4, 6, 0, 0, 0, edt), testNow, 16))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "Today", Period{Day: Today}.Label())
	assert.Equal(t, "Tonight", Period{Day: Today, Night: true}.Label())
	assert.Equal(t, "Tuesday", Period{Day: "Tuesday"}.Label())
	assert.Equal(t, "Tuesday Night", Period{Day: "Tuesday", Night: true}.Label())
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleForecast), testNow, 16)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"Today", "Friday", "Saturday", "Sunday"}, f.Days); diff != "" {
		t.Errorf("days mismatch (-want +got):\n%s", diff)
	}

	wantTemps := map[Period]string{
		{Day: Today}:                   "81",
		{Day: "Friday"}:                "75",
		{Day: "Sunday"}:                "70",
		{Day: Today, Night: true}:      "60",
		{Day: "Friday", Night: true}:   "58",
		{Day: "Saturday", Night: true}: "55",
	}
	if diff := cmp.Diff(wantTemps, f.Temps); diff != "" {
		t.Errorf("temps mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "40", f.Precip[Period{Day: "Friday"}])
	assert.Equal(t, Summary{Text: "Rain Showers", FromValue: true}, f.Summaries[Period{Day: Today}])
	assert.Equal(t, Summary{Text: "Mostly Clear"}, f.Summaries[Period{Day: Today, Night: true}])
	assert.Equal(t, Summary{Text: "Partly Cloudy"}, f.Summaries[Period{Day: "Friday"}])
	_, ok := f.Summaries[Period{Day: "Friday", Night: true}]
	assert.False(t, ok, "empty conditions should be skipped")
	assert.Equal(t, Summary{Text: "Thunderstorms", FromValue: true}, f.Summaries[Period{Day: "Sunday"}])
}

func TestFormat(t *testing.T) {
	f, err := Parse([]byte(sampleForecast), testNow, 16)
	require.NoError(t, err)

	got, err := Format(f, testColors)
	require.NoError(t, err)

	want := "<color120>" +
		"Today: <color200>81F<color120>/<color002>60F<color120> 20% Rain Showers, " +
		"Friday: <color200>75F<color120>/<color002>58F<color120> Partly Cloudy, " +
		"Saturday: <color002>55F<color120> Sunny, " +
		"Sunday: <color200>70F<color120> 60% Thunderstorms"
	assert.Equal(t, want, got)
}

func TestFormatSkipsDaysWithoutTemperature(t *testing.T) {
	f := &Forecast{
		Days:      []string{"Today", "Friday"},
		Temps:     map[Period]string{{Day: "Friday"}: "75"},
		Summaries: map[Period]Summary{{Day: Today}: {Text: "Sunny"}},
	}
	got, err := Format(f, testColors)
	require.NoError(t, err)
	assert.Equal(t, "<color120>Friday: <color200>75F<color120>", got)
}

func TestFormatNothingToShow(t *testing.T) {
	_, err := Format(&Forecast{Days: []string{"Today"}}, testColors)
	var pe *apperr.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestParseDaysFallBackToTemperatureLayouts(t *testing.T) {
	doc := `<dwml><data>
<time-layout><layout-key>a</layout-key><start-valid-time>2009-05-29T06:00:00-04:00</start-valid-time><start-valid-time>2009-05-30T06:00:00-04:00</start-valid-time></time-layout>
<parameters><temperature type="maximum" time-layout="a"><value>70</value><value>71</value></temperature></parameters>
</data></dwml>`
	f, err := Parse([]byte(doc), testNow, 16)
	require.NoError(t, err)
	assert.Equal(t, []string{"Friday", "Saturday"}, f.Days)
}

func TestParseUnknownLayout(t *testing.T) {
	doc := `<dwml><data><parameters><temperature time-layout="missing"><value>70</value></temperature></parameters></data></dwml>`
	_, err := Parse([]byte(doc), testNow, 16)
	var pe *apperr.ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Contains(t, err.Error(), "missing")
}

func TestParseValueBeyondLayout(t *testing.T) {
	doc := `<dwml><data>
<time-layout><layout-key>a</layout-key><start-valid-time>2009-05-29T06:00:00-04:00</start-valid-time></time-layout>
<parameters><temperature time-layout="a"><value>70</value><value>71</value></temperature></parameters>
</data></dwml>`
	_, err := Parse([]byte(doc), testNow, 16)
	var pe *apperr.ParseError
	assert.True(t, errors.As(err, &pe), "got %v", err)
}

func TestParseNoData(t *testing.T) {
	_, err := Parse([]byte(`<dwml></dwml>`), testNow, 16)
	assert.Error(t, err)
}

func TestParseLatLon(t *testing.T) {
	lat, lon, err := ParseLatLon([]byte(`<?xml version='1.0'?><dwml version='1.0'><latLonList>35.2272,-80.8434</latLonList></dwml>`))
	require.NoError(t, err)
	assert.InDelta(t, 35.2272, lat, 1e-9)
	assert.InDelta(t, -80.8434, lon, 1e-9)
}

func TestParseLatLonBadZip(t *testing.T) {
	_, _, err := ParseLatLon([]byte(`<dwml><latLonList></latLonList></dwml>`))
	assert.True(t, apperr.IsArgument(err), "expected ArgumentError, got %v", err)
}

type fakeSOAP struct {
	action string
	params []fetch.Param
}

func (f *fakeSOAP) SOAP(ctx context.Context, endpoint, namespace, action string, params []fetch.Param) ([]byte, error) {
	f.action, f.params = action, params
	return []byte("ok"), nil
}

func TestServiceForecastParams(t *testing.T) {
	fake := &fakeSOAP{}
	svc := &Service{Client: fake, Endpoint: "http://example.com/ndfd", Namespace: "urn:ndfd"}

	_, err := svc.Forecast(context.Background(), 35.2272, -80.8434, testNow, 4)
	require.NoError(t, err)

	assert.Equal(t, ActionForecast, fake.action)
	want := []fetch.Param{
		{Name: "latitude", Value: "35.2272"},
		{Name: "longitude", Value: "-80.8434"},
		{Name: "startDate", Value: "2009-05-28Z"},
		{Name: "numDays", Value: "4"},
		{Name: "format", Value: "12 hourly"},
	}
	assert.Equal(t, want, fake.params)
}
