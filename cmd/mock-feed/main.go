// Command mock-feed serves synthetic readings and metadata feeds for local
// development, mimicking the survey platform's submission endpoints. Point
// the service at it with:
//
//	READINGS_FEED_URL=http://localhost:9191/readings \
//	METADATA_FEED_URL=http://localhost:9191/metadata \
//	  go run ./cmd/pluvio
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

type station struct {
	code   string
	name   string
	lat    float64
	lon    float64
	region string
}

var roster = []station{
	{"1042", "La Merced", -24.96, -65.48, "Valle de Lerma"},
	{"1043", "Campo Santo", -24.68, -65.10, "Valle de Lerma"},
	{"2001", "Las Lajitas", -24.72, -64.25, "Anta"},
	{"2002", "Apolinario Saravia", -24.43, -64.00, "Anta"},
	{"3001", "El Carmen", -24.39, -65.26, "Valles Templados"},
}

var phenomena = []string{"sinfeno", "sinfeno", "sinfeno", "tormenta", "granizo", "viento"}

func main() {
	addr := flag.String("addr", ":9191", "listen address")
	days := flag.Int("days", 120, "days of synthetic history")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	readings := generateReadings(rng, *days)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /readings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, readings)
	})
	mux.HandleFunc("GET /metadata", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, generateMetadata())
	})

	log.Printf("mock feed listening on %s (%d readings)", *addr, len(readings))
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func generateReadings(rng *rand.Rand, days int) []map[string]any {
	var rows []map[string]any
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for d := 0; d < days; d++ {
		date := today.AddDate(0, 0, -d)
		for _, st := range roster {
			if rng.Float64() < 0.2 {
				continue // not every gauge reports every day
			}
			mm := 0.0
			if rng.Float64() < 0.4 {
				mm = float64(int(rng.ExpFloat64()*120)) / 10
			}
			rows = append(rows, map[string]any{
				// Codes round-trip through a float column upstream.
				"Pluviometros":           st.code + ".0",
				"Fecha_del_dato":         date.Format("2006-01-02T15:04:05"),
				"Mil_metros_registrados": fmt.Sprintf("%.1f", mm),
				"fenomeno":               phenomena[rng.Intn(len(phenomena))],
			})
		}
	}
	return rows
}

func generateMetadata() []map[string]any {
	rows := make([]map[string]any, 0, len(roster))
	for _, st := range roster {
		rows = append(rows, map[string]any{
			"Codigo_txt_del_pluviometro": st.code,
			"Nombre_del_Pluviometro":     st.name,
			"Ubicaci_in":                 fmt.Sprintf("%.2f %.2f", st.lat, st.lon),
			"Provincia":                  "Salta",
			"Region_INTA":                st.region,
		})
	}
	return rows
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
