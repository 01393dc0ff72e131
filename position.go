package solarpos

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/subtlepseudonym/solarpos/solar"
)

// PositionResponse is the JSON form of a solar position. Angles are in
// degrees and distance in AU. Azimuth is null when the sun is at the
// zenith.
type PositionResponse struct {
	Time               string   `json:"time"`
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	Altitude           float64  `json:"altitude"`
	Zenith             float64  `json:"zenith"`
	Azimuth            *float64 `json:"azimuth"`
	Declination        float64  `json:"declination"`
	GreenwichHourAngle float64  `json:"greenwich_hour_angle"`
	EquationOfTime     float64  `json:"equation_of_time"`
	Distance           float64  `json:"distance"`
	EphemerisDate      float64  `json:"jde"`
}

func NewPositionResponse(t time.Time, location Location, pos solar.Position) PositionResponse {
	res := PositionResponse{
		Time:               t.UTC().Format(time.RFC3339),
		Latitude:           location.Latitude,
		Longitude:          location.Longitude,
		Altitude:           pos.Altitude.Deg(),
		Zenith:             pos.Zenith.Deg(),
		Declination:        pos.Declination.Deg(),
		GreenwichHourAngle: pos.GreenwichHourAngle.Deg(),
		EquationOfTime:     pos.EquationOfTime.Deg(),
		Distance:           pos.Distance,
		EphemerisDate:      pos.EphemerisDate,
	}

	if !pos.AzimuthUndefined {
		azimuth := pos.Azimuth.Deg()
		res.Azimuth = &azimuth
	}
	return res
}

// PositionJob logs the position of the sun at Location each time it runs
type PositionJob struct {
	Name       string
	Location   Location
	Calculator solar.Calculator
}

// Run logs the current position
//
// This implements robfig/cron.Job
func (j PositionJob) Run() {
	err := j.Log(time.Now())
	if err != nil {
		log.Printf("ERR: %s: %s", j.Name, err)
	}
}

func (j PositionJob) Log(t time.Time) error {
	pos, err := j.Calculator.Position(t, j.Location.Observer())
	if err != nil {
		return fmt.Errorf("compute position: %w", err)
	}

	if pos.AzimuthUndefined {
		log.Printf("WARN: %s: sun at zenith, azimuth undefined", j.Name)
		log.Printf("%s: altitude=%.4f declination=%.4f distance=%.6f", j.Name, pos.Altitude.Deg(), pos.Declination.Deg(), pos.Distance)
		return nil
	}

	log.Printf(
		"%s: altitude=%.4f azimuth=%.4f declination=%.4f distance=%.6f",
		j.Name,
		pos.Altitude.Deg(),
		pos.Azimuth.Deg(),
		pos.Declination.Deg(),
		pos.Distance,
	)
	return nil
}

// PositionHandler serves the position of the sun. The lat, lon and time
// (RFC3339) query parameters default to location and the current time.
func PositionHandler(location Location, calc solar.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		query := r.URL.Query()

		loc := location
		for _, param := range []struct {
			name  string
			value *float64
			limit float64
		}{
			{"lat", &loc.Latitude, 90},
			{"lon", &loc.Longitude, 180},
		} {
			if !query.Has(param.name) {
				continue
			}

			raw := query.Get(param.name)
			p, err := strconv.ParseFloat(raw, 64)
			if err != nil || !(p >= -param.limit && p <= param.limit) {
				log.Printf("ERR: parse %s param %q: out of range or invalid", param.name, raw)
				writeError(w, http.StatusBadRequest, fmt.Sprintf("unable to parse %s parameter", param.name))
				return
			}
			*param.value = p
		}

		t := time.Now()
		if query.Has("time") {
			raw := query.Get("time")
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				log.Printf("ERR: parse time param %q: %s", raw, err)
				writeError(w, http.StatusBadRequest, "unable to parse time parameter")
				return
			}
			t = parsed
		}

		pos, err := calc.Position(t, loc.Observer())
		if errors.Is(err, solar.ErrInvalidTime) {
			log.Printf("ERR: compute position: %s", err)
			writeError(w, http.StatusBadRequest, "time parameter out of range")
			return
		} else if err != nil {
			log.Printf("ERR: compute position: %s", err)
			writeError(w, http.StatusInternalServerError, "unable to compute position")
			return
		}

		err = json.NewEncoder(w).Encode(NewPositionResponse(t, loc, pos))
		if err != nil {
			log.Printf("ERR: encode position: %s", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
