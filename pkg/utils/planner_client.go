package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"

	"github.com/pgvector/pgvector-go"

	"wayfarer/internal/models/request_models"
)

// PlannerClientInterface is the text-generation collaborator: a structured
// prompt in, freeform or JSON text out. The core only ever consumes parsed
// output from it or proceeds without it.
type PlannerClientInterface interface {
	// ProposeDayGrouping asks the model to split the locations across
	// numDays days, honoring the style's pacing. Returned groups are ordered
	// by day number and contain location ids.
	ProposeDayGrouping(ctx context.Context, locations []request_models.LocationSummary, numDays int, style string, pairMinutes map[string]map[string]int) ([][]string, error)
	// DiscoverLocations runs a discovery prompt and returns the raw JSON
	// text the model produced, cleaned of markdown wrapping.
	DiscoverLocations(ctx context.Context, prompt string) (string, error)
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

type dayGroupingProposal struct {
	Days []struct {
		DayNumber int      `json:"day_number"`
		Locations []string `json:"locations"`
	} `json:"days"`
}

func buildGroupingPrompt(locations []request_models.LocationSummary, numDays int, style string, pairMinutes map[string]map[string]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a travel itinerary optimizer. Assign each location to one of %d days.\n\n", numDays)
	b.WriteString("Locations:\n")
	for _, loc := range locations {
		fmt.Fprintf(&b, "- ID:%s | Name:%s | Lat:%.5f | Lng:%.5f\n", loc.ID, loc.Name, loc.Lat, loc.Lng)
	}

	if len(pairMinutes) > 0 {
		b.WriteString("\nDriving minutes between locations (use to group nearby ones together):\n")
		ids := make([]string, 0, len(pairMinutes))
		for id := range pairMinutes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, from := range ids {
			for _, to := range ids {
				if from >= to {
					continue
				}
				if minutes, ok := pairMinutes[from][to]; ok {
					fmt.Fprintf(&b, "- %s -> %s: %d min\n", from, to, minutes)
				}
			}
		}
	}

	fmt.Fprintf(&b, "\nTrip style: %s\n\n", style)
	b.WriteString("Rules:\n")
	b.WriteString("- Group nearby locations together on the same day\n")
	b.WriteString("- For \"relaxed\" style: 2-3 locations per day\n")
	b.WriteString("- For \"balanced\" style: 3-4 locations per day\n")
	b.WriteString("- For \"packed\" style: 4-5 locations per day\n")
	b.WriteString("- Each location ID must appear exactly once\n")
	fmt.Fprintf(&b, "- Exactly %d days, day_number 1..%d with no gaps\n\n", numDays, numDays)
	b.WriteString("Return ONLY a JSON object in this exact format:\n")
	b.WriteString(`{"days":[{"day_number":1,"locations":["location_id_1","location_id_2"]}]}`)
	return b.String()
}

func parseGrouping(raw string) ([][]string, error) {
	var proposal dayGroupingProposal
	if err := json.Unmarshal([]byte(raw), &proposal); err != nil {
		return nil, fmt.Errorf("grouping parse: %w", err)
	}
	if len(proposal.Days) == 0 {
		return nil, fmt.Errorf("grouping parse: no days")
	}
	sort.SliceStable(proposal.Days, func(i, j int) bool {
		return proposal.Days[i].DayNumber < proposal.Days[j].DayNumber
	})
	groups := make([][]string, 0, len(proposal.Days))
	for _, day := range proposal.Days {
		groups = append(groups, day.Locations)
	}
	return groups, nil
}

// cleanJSONResponse strips markdown fences and chatter the model may wrap
// around the JSON payload, then cuts to the outermost object or array.
func cleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	if objStart != -1 && (arrStart == -1 || objStart < arrStart) {
		if end := findMatching(response, objStart, '{', '}'); end != -1 {
			response = response[objStart : end+1]
		}
	} else if arrStart != -1 {
		if end := findMatching(response, arrStart, '[', ']'); end != -1 {
			response = response[arrStart : end+1]
		}
	}
	return strings.TrimSpace(response)
}

func findMatching(s string, start int, open, close byte) int {
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// textToVector creates a deterministic hash-based embedding for providers
// without a dedicated embedding endpoint. It is only good enough for coarse
// similarity over cached places, which is all the discovery seed needs.
func textToVector(text string) pgvector.Vector {
	text = strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(text)

	const dimensions = 1536
	vector := make([]float32, dimensions)

	for _, word := range words {
		hash := hashWord(word)
		for i := 0; i < dimensions; i++ {
			influence := math.Sin(float64(hash+uint32(i))) * 0.1
			vector[i] += float32(influence)
		}
	}

	magnitude := float32(0)
	for _, val := range vector {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))
	if magnitude > 0 {
		for i := range vector {
			vector[i] /= magnitude
		}
	}
	return pgvector.NewVector(vector)
}

func hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}
