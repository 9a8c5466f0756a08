package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	places  map[string][]service.Place
	err     error
	queries []string
	counts  []int
}

func (g *fakeGeocoder) Search(_ context.Context, name string, count int) ([]service.Place, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries = append(g.queries, name)
	g.counts = append(g.counts, count)
	if g.err != nil {
		return nil, g.err
	}
	return g.places[name], nil
}

func (g *fakeGeocoder) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.queries...)
}

// fakeForecaster answers with a payload whose current temperature equals the requested
// latitude so tests can check which location a snapshot came from.
type fakeForecaster struct {
	resp *service.ForecastResponse
	err  error
	reqs chan service.ForecastRequest
}

func (f *fakeForecaster) Forecast(_ context.Context, req service.ForecastRequest) (*service.ForecastResponse, error) {
	if f.reqs != nil {
		f.reqs <- req
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	lat := req.Latitude
	return &service.ForecastResponse{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		CurrentWeather: &service.CurrentWeather{Time: "2024-06-01T14:00", Temperature: &lat},
	}, nil
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

var london = service.Place{
	ID:        2643743,
	Name:      "London",
	Latitude:  51.5074,
	Longitude: -0.1278,
	Country:   "United Kingdom",
	Admin1:    "England",
	Timezone:  "Europe/London",
}

func newService(t *testing.T, geo service.Geocoder, fc service.ForecastProvider, opts ...Option) *Service {
	t.Helper()
	return NewService(geo, fc, config.UpstreamConfig{}, zaptest.NewLogger(t), telemetry.Disabled(), opts...)
}

// hourlyBlock builds n hourly entries starting at start, formatted in start's zone.
func hourlyBlock(start time.Time, n int) *service.HourlyBlock {
	b := &service.HourlyBlock{}
	for i := 0; i < n; i++ {
		b.Time = append(b.Time, start.Add(time.Duration(i)*time.Hour).Format(HourLayout))
		b.Temperature = append(b.Temperature, fptr(float64(i)))
		b.ApparentTemperature = append(b.ApparentTemperature, fptr(float64(i)-1))
		b.RelativeHumidity = append(b.RelativeHumidity, fptr(50))
		b.WeatherCode = append(b.WeatherCode, iptr(3))
		b.IsDay = append(b.IsDay, iptr(1))
	}
	return b
}

func dailyBlock(start time.Time, n int) *service.DailyBlock {
	b := &service.DailyBlock{}
	for i := 0; i < n; i++ {
		day := start.AddDate(0, 0, i)
		b.Time = append(b.Time, day.Format("2006-01-02"))
		b.TemperatureMax = append(b.TemperatureMax, fptr(20+float64(i)))
		b.TemperatureMin = append(b.TemperatureMin, fptr(10+float64(i)))
		b.WeatherCode = append(b.WeatherCode, iptr(61))
		b.Sunrise = append(b.Sunrise, day.Format("2006-01-02")+"T05:00")
	}
	return b
}

func TestResolveTakesFirstResult(t *testing.T) {
	geo := &fakeGeocoder{places: map[string][]service.Place{
		"London": {london, {Name: "London", Latitude: 42.98, Longitude: -81.23, Country: "Canada"}},
	}}
	svc := newService(t, geo, &fakeForecaster{})

	loc, err := svc.Resolve(context.Background(), "  London ")
	require.NoError(t, err)

	assert.Equal(t, ResolvedLocation{
		Query:        "London",
		ResolvedName: "London",
		Country:      "United Kingdom",
		Latitude:     51.5074,
		Longitude:    -0.1278,
		Timezone:     "Europe/London",
	}, loc)
	assert.Equal(t, []string{"London"}, geo.calls())
	assert.Equal(t, []int{10}, geo.counts)
}

func TestResolveFallsBackToCityBeforeComma(t *testing.T) {
	springfield := service.Place{Name: "Springfield", Latitude: 39.8, Longitude: -89.64, Country: "United States"}
	geo := &fakeGeocoder{places: map[string][]service.Place{
		"Springfield": {springfield},
	}}
	svc := newService(t, geo, &fakeForecaster{})

	loc, err := svc.Resolve(context.Background(), "Springfield, Illinois, USA")
	require.NoError(t, err)

	assert.Equal(t, []string{"Springfield, Illinois, USA", "Springfield"}, geo.calls())
	assert.Equal(t, "Springfield, Illinois, USA", loc.Query)
	assert.Equal(t, "Springfield", loc.ResolvedName)
	assert.Equal(t, "auto", loc.Timezone)
}

func TestResolveCommaQueryNotFoundAfterFallback(t *testing.T) {
	geo := &fakeGeocoder{}
	svc := newService(t, geo, &fakeForecaster{})

	_, err := svc.Resolve(context.Background(), "Qwzxynoplace123, Nowhere")
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "City not found: Qwzxynoplace123, Nowhere", Message(err))
	assert.Equal(t, []string{"Qwzxynoplace123, Nowhere", "Qwzxynoplace123"}, geo.calls())
}

func TestResolveWithoutCommaMakesOneCall(t *testing.T) {
	geo := &fakeGeocoder{}
	svc := newService(t, geo, &fakeForecaster{})

	_, err := svc.Resolve(context.Background(), "Qwzxynoplace123")
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "City not found: Qwzxynoplace123", Message(err))
	assert.Equal(t, []string{"Qwzxynoplace123"}, geo.calls())
}

func TestResolveRejectsBlankQuery(t *testing.T) {
	geo := &fakeGeocoder{}
	svc := newService(t, geo, &fakeForecaster{})

	_, err := svc.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, geo.calls())
}

func TestResolveUpstreamFailure(t *testing.T) {
	cause := &service.StatusError{API: service.APIGeocoding, Status: 502}
	svc := newService(t, &fakeGeocoder{err: cause}, &fakeForecaster{})

	_, err := svc.Resolve(context.Background(), "London")
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	var se *service.StatusError
	assert.True(t, errors.As(err, &se))
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestResolveCoordinates(t *testing.T) {
	loc, err := ResolveCoordinates(51.5074, -0.1278)
	require.NoError(t, err)
	assert.Equal(t, "51.5074, -0.1278", loc.ResolvedName)
	assert.Equal(t, "auto", loc.Timezone)

	_, err = ResolveCoordinates(91, 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = ResolveCoordinates(0, -180.5)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = ResolveCoordinates(-90, 180)
	assert.NoError(t, err)
}

func TestReshapeAlignsRecordsByIndex(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	hourly := hourlyBlock(start, 48)
	hourly.Temperature[5] = nil
	hourly.UVIndex = []*float64{fptr(1), fptr(2)}
	daily := dailyBlock(start, 7)

	snap, err := Reshape(&service.ForecastResponse{
		CurrentWeather: &service.CurrentWeather{Time: "2024-06-01T00:00", Temperature: fptr(12)},
		Hourly:         hourly,
		Daily:          daily,
	}, start)
	require.NoError(t, err)

	require.Len(t, snap.Hourly, 48)
	require.Len(t, snap.Daily, 7)

	for i, h := range snap.Hourly {
		assert.Equal(t, hourly.Time[i], h.Time)
		if i == 5 {
			assert.Nil(t, h.Temperature)
			continue
		}
		require.NotNil(t, h.Temperature)
		assert.Equal(t, float64(i), *h.Temperature)
	}

	assert.Equal(t, 2.0, *snap.Hourly[1].UVIndex)
	assert.Nil(t, snap.Hourly[2].UVIndex)
	assert.Equal(t, "Overcast", snap.Hourly[10].Description)

	for i, d := range snap.Daily {
		assert.Equal(t, daily.Time[i], d.Date)
		assert.Equal(t, 20+float64(i), *d.TemperatureMax)
		assert.Equal(t, "rain", d.Icon)
		assert.Empty(t, d.Sunset)
	}
}

func TestReshapeWithoutBlocksYieldsEmptySeries(t *testing.T) {
	snap, err := Reshape(&service.ForecastResponse{
		CurrentWeather: &service.CurrentWeather{Temperature: fptr(3), WeatherCode: iptr(1234)},
	}, time.Now())
	require.NoError(t, err)

	assert.NotNil(t, snap.Hourly)
	assert.Empty(t, snap.Hourly)
	assert.Empty(t, snap.Daily)
	assert.Equal(t, "Unknown", snap.Current.Description)
	assert.Equal(t, IconCloud, snap.Current.Icon)
	assert.Nil(t, snap.Current.FeelsLike)
}

func TestReshapeRequiresCurrentTemperature(t *testing.T) {
	_, err := Reshape(&service.ForecastResponse{
		CurrentWeather: &service.CurrentWeather{Time: "2024-06-01T14:00"},
		Hourly:         hourlyBlock(time.Now(), 3),
	}, time.Now())
	assert.Error(t, err)

	_, err = Reshape(&service.ForecastResponse{Hourly: hourlyBlock(time.Now(), 3)}, time.Now())
	assert.Error(t, err)
}

func TestCurrentHourIndex(t *testing.T) {
	zone := time.FixedZone("BST", 3600)
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, zone)
	hours := ReshapeHourly(hourlyBlock(start, 4))

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before first entry", start.Add(-3 * time.Hour), 0},
		{"exactly on an entry", start.Add(2 * time.Hour), 2},
		{"between entries picks next", start.Add(90 * time.Minute), 2},
		{"now given in UTC", time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC), 1},
		{"all in the past picks closest", start.Add(10 * time.Hour), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentHourIndex(hours, tt.now, zone))
		})
	}
}

func TestCurrentHourIndexTieAndGarbage(t *testing.T) {
	hours := []HourlyRecord{
		{Time: "not a time"},
		{Time: "2024-06-01T10:00"},
		{Time: "2024-06-01T10:00"},
	}
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, CurrentHourIndex(hours, now, time.UTC))

	assert.Equal(t, -1, CurrentHourIndex([]HourlyRecord{{Time: "bad"}}, now, time.UTC))
}

func TestWeatherForCityLondonRain(t *testing.T) {
	zone := time.FixedZone("BST", 3600)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, zone)
	hourly := hourlyBlock(start, 48)
	hourly.PressureMSL = make([]*float64, 48)
	hourly.PressureMSL[14] = fptr(1008.4)

	resp := &service.ForecastResponse{
		Latitude:         51.5,
		Longitude:        -0.12,
		Timezone:         "Europe/London",
		UTCOffsetSeconds: 3600,
		CurrentWeather: &service.CurrentWeather{
			Time:          "2024-06-01T14:00",
			Temperature:   fptr(15.2),
			WindSpeed:     fptr(11.3),
			WindDirection: fptr(240),
			WeatherCode:   iptr(61),
			IsDay:         iptr(1),
		},
		Hourly: hourly,
		Daily:  dailyBlock(start, 10),
	}

	reqs := make(chan service.ForecastRequest, 1)
	geo := &fakeGeocoder{places: map[string][]service.Place{"London": {london}}}
	now := time.Date(2024, 6, 1, 13, 20, 0, 0, time.UTC) // 14:20 local
	svc := newService(t, geo, &fakeForecaster{resp: resp, reqs: reqs}, WithClock(func() time.Time { return now }))

	report, err := svc.WeatherForCity(context.Background(), "London")
	require.NoError(t, err)

	req := <-reqs
	assert.Equal(t, 51.5074, req.Latitude)
	assert.Equal(t, -0.1278, req.Longitude)
	assert.Equal(t, "Europe/London", req.Timezone)
	assert.Equal(t, 10, req.Days)
	assert.Equal(t, config.DefaultHourly, req.Hourly)
	assert.Equal(t, config.DefaultDaily, req.Daily)

	assert.Equal(t, "open-meteo.com", report.Source)
	assert.Equal(t, 51.5074, report.Location.Latitude)
	assert.Equal(t, "Europe/London", report.Location.Timezone)

	cur := report.Current
	assert.Equal(t, 15.2, cur.Temperature)
	assert.Equal(t, "Slight rain", cur.Description)
	assert.Equal(t, IconRain, cur.Icon)
	require.NotNil(t, cur.IsDay)
	assert.True(t, *cur.IsDay)

	// 14:20 local selects the 15:00 entry.
	require.NotNil(t, cur.FeelsLike)
	assert.Equal(t, 14.0, *cur.FeelsLike)
	assert.Nil(t, cur.Pressure)
	assert.Nil(t, cur.UVIndex)

	assert.Len(t, report.Hourly, 48)
	assert.Len(t, report.Daily, 10)
}

func TestWeatherForCityNotFoundSkipsForecast(t *testing.T) {
	reqs := make(chan service.ForecastRequest, 1)
	svc := newService(t, &fakeGeocoder{}, &fakeForecaster{reqs: reqs})

	_, err := svc.WeatherForCity(context.Background(), "Qwzxynoplace123")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, reqs)
}

func TestWeatherForCityForecastFailure(t *testing.T) {
	geo := &fakeGeocoder{places: map[string][]service.Place{"London": {london}}}
	svc := newService(t, geo, &fakeForecaster{err: service.ErrMissingData})

	_, err := svc.WeatherForCity(context.Background(), "London")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, service.ErrMissingData)
	assert.Equal(t, "Failed to fetch weather data", Message(err))
}

func TestWeatherAt(t *testing.T) {
	svc := newService(t, &fakeGeocoder{}, &fakeForecaster{})

	report, err := svc.WeatherAt(context.Background(), 48.8566, 2.3522)
	require.NoError(t, err)
	assert.Equal(t, "48.8566, 2.3522", report.Location.ResolvedName)
	assert.Equal(t, 48.8566, report.Current.Temperature)

	_, err = svc.WeatherAt(context.Background(), 120, 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestConcurrentLookupsKeepLocationsApart(t *testing.T) {
	places := map[string][]service.Place{}
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("City%d", i)
		places[name] = []service.Place{{Name: name, Latitude: float64(i), Longitude: float64(-i)}}
	}
	svc := newService(t, &fakeGeocoder{places: places}, &fakeForecaster{})

	var wg sync.WaitGroup
	for round := 0; round < 5; round++ {
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				name := fmt.Sprintf("City%d", i)

				report, err := svc.WeatherForCity(context.Background(), name)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, name, report.Location.ResolvedName)
				assert.Equal(t, float64(i), report.Location.Latitude)
				assert.Equal(t, float64(-i), report.Location.Longitude)
				assert.Equal(t, report.Location.Latitude, report.Current.Temperature)
			}(i)
		}
	}
	wg.Wait()
}

func TestSearchCities(t *testing.T) {
	geo := &fakeGeocoder{places: map[string][]service.Place{
		"Lon": {
			london,
			{Name: "Long Beach", Admin1: "California", Country: "United States", Latitude: 33.77, Longitude: -118.19},
			{Name: "Londrina", Country: "Brazil"},
		},
	}}
	svc := newService(t, geo, &fakeForecaster{})

	got, err := svc.SearchCities(context.Background(), " Lon ", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, CitySuggestion{
		Name:        "London",
		State:       "England",
		Country:     "United Kingdom",
		DisplayName: "London, England, United Kingdom",
		Latitude:    51.5074,
		Longitude:   -0.1278,
	}, got[0])
	assert.Equal(t, "Long Beach, California, United States", got[1].DisplayName)
	assert.Equal(t, "Londrina, Brazil", got[2].DisplayName)
	assert.Equal(t, []int{3}, geo.counts)
}

func TestSearchCitiesEmptyQuery(t *testing.T) {
	geo := &fakeGeocoder{}
	svc := newService(t, geo, &fakeForecaster{})

	got, err := svc.SearchCities(context.Background(), "  ", 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, geo.calls())
}

func TestSearchCitiesLimitFallback(t *testing.T) {
	geo := &fakeGeocoder{}
	svc := newService(t, geo, &fakeForecaster{})

	for _, limit := range []int{0, -1, 101} {
		_, err := svc.SearchCities(context.Background(), "Paris", limit)
		require.NoError(t, err)
	}
	_, err := svc.SearchCities(context.Background(), "Paris", 100)
	require.NoError(t, err)

	assert.Equal(t, []int{5, 5, 5, 100}, geo.counts)
}

func TestSearchCitiesUpstreamFailure(t *testing.T) {
	svc := newService(t, &fakeGeocoder{err: errors.New("connection refused")}, &fakeForecaster{})

	_, err := svc.SearchCities(context.Background(), "Paris", 5)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, Condition{"Slight rain", IconRain}, Describe(61))
	assert.Equal(t, Condition{"Clear sky", IconSun}, Describe(0))
	assert.Equal(t, Condition{"Thunderstorm", IconStorm}, Describe(95))
	assert.Equal(t, unknownCondition, Describe(42))

	for code, c := range conditions {
		assert.NotEmpty(t, c.Description, "code %d", code)
		assert.NotEmpty(t, c.Icon, "code %d", code)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := upstreamUnavailable("Failed to search cities", cause)

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to search cities: dial tcp: refused", err.Error())
	assert.Equal(t, "Failed to search cities", Message(err))
	assert.Equal(t, "Failed to fetch weather data", Message(errors.New("boom")))
}
