// seed_session.go: standalone script to parse a markdown worksheet and seed an OOVL session via the API.
//
// The file is read section by section: bullets under "## Options",
// "## Outcomes" and "## Constraints" are posted in order. A constraint bullet
// may end with "(NN)" to set its importance.
//
// Usage:
//
//	go run scripts/seed_session.go -file worksheet.md -api http://localhost:8700 -region EU -age 60
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
)

type constraintItem struct {
	Description string
	Importance  *int
}

type worksheetSeed struct {
	Options     []string
	Outcomes    []string
	Constraints []constraintItem
}

var importanceSuffix = regexp.MustCompile(`\((\d{1,3})\)\s*$`)

func main() {
	path := flag.String("file", "worksheet.md", "path to markdown worksheet")
	apiURL := flag.String("api", "http://localhost:8700", "OOVL API base URL")
	region := flag.String("region", "", "profile region")
	age := flag.Int("age", 0, "profile age")
	name := flag.String("name", "", "profile name")
	dryRun := flag.Bool("dry-run", false, "print parsed entries without posting")
	flag.Parse()

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open worksheet: %v", err)
	}
	defer f.Close()

	var seed worksheetSeed
	var section string
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "#") {
			section = strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "# ")))
			continue
		}

		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "- ") && !strings.HasPrefix(trimmed, "* ") {
			continue
		}
		text := strings.TrimSpace(trimmed[2:])
		if text == "" {
			continue
		}

		switch section {
		case "options":
			seed.Options = append(seed.Options, text)
		case "outcomes":
			seed.Outcomes = append(seed.Outcomes, text)
		case "constraints":
			seed.Constraints = append(seed.Constraints, parseConstraint(text))
		}
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("scan worksheet: %v", err)
	}

	log.Printf("parsed %d options, %d outcomes, %d constraints from %s",
		len(seed.Options), len(seed.Outcomes), len(seed.Constraints), *path)

	if *dryRun {
		for i, o := range seed.Options {
			fmt.Printf("option  [%d] %s\n", i, o)
		}
		for i, o := range seed.Outcomes {
			fmt.Printf("outcome [%d] %s\n", i, o)
		}
		for i, c := range seed.Constraints {
			importance := "default"
			if c.Importance != nil {
				importance = strconv.Itoa(*c.Importance)
			}
			fmt.Printf("constraint [%d] %s (importance=%s)\n", i, c.Description, importance)
		}
		return
	}

	client := &http.Client{}
	base := strings.TrimRight(*apiURL, "/") + "/api/v1/sessions"

	var created struct {
		SessionID string `json:"session_id"`
	}
	if err := send(client, http.MethodPost, base, map[string]interface{}{
		"name":   *name,
		"region": *region,
		"age":    *age,
	}, http.StatusCreated, &created); err != nil {
		log.Fatalf("create session: %v", err)
	}
	sessionURL := base + "/" + created.SessionID
	log.Printf("session %s created", created.SessionID)

	// The server seeds default options and outcomes; clear them so the file is authoritative.
	clearRegistry(client, sessionURL+"/options", "options")
	clearRegistry(client, sessionURL+"/outcomes", "outcomes")

	posted, skipped := 0, 0
	post := func(url string, body interface{}, label string) {
		if err := send(client, http.MethodPost, url, body, http.StatusOK, nil); err != nil {
			log.Printf("skip %q: %v", label, err)
			skipped++
			return
		}
		posted++
	}

	for _, o := range seed.Options {
		post(sessionURL+"/options", map[string]string{"name": o}, o)
	}
	for _, o := range seed.Outcomes {
		post(sessionURL+"/outcomes", map[string]string{"name": o}, o)
	}
	p, sk := postConstraints(client, sessionURL, seed.Constraints)
	posted, skipped = posted+p, skipped+sk

	log.Printf("done: session %s, %d posted, %d skipped", created.SessionID, posted, skipped)
}

// postConstraints adds each constraint and sets its importance at the index
// the server reports, so ignored or failed entries do not shift later ones.
func postConstraints(client *http.Client, sessionURL string, constraints []constraintItem) (posted, skipped int) {
	for _, c := range constraints {
		var res struct {
			Added       bool              `json:"added"`
			Constraints []json.RawMessage `json:"constraints"`
		}
		if err := send(client, http.MethodPost, sessionURL+"/constraints", map[string]string{"description": c.Description}, http.StatusOK, &res); err != nil {
			log.Printf("skip %q: %v", c.Description, err)
			skipped++
			continue
		}
		if !res.Added {
			log.Printf("skip %q: ignored by server", c.Description)
			skipped++
			continue
		}
		posted++
		if c.Importance == nil {
			continue
		}
		// The new constraint is last in the live list.
		url := fmt.Sprintf("%s/constraints/%d/importance", sessionURL, len(res.Constraints)-1)
		if err := send(client, http.MethodPut, url, map[string]int{"importance": *c.Importance}, http.StatusOK, nil); err != nil {
			log.Printf("importance %q: %v", c.Description, err)
		}
	}
	return posted, skipped
}

func parseConstraint(text string) constraintItem {
	m := importanceSuffix.FindStringSubmatch(text)
	if m == nil {
		return constraintItem{Description: text}
	}
	v, _ := strconv.Atoi(m[1])
	desc := strings.TrimSpace(text[:len(text)-len(m[0])])
	return constraintItem{Description: desc, Importance: &v}
}

func clearRegistry(client *http.Client, url, key string) {
	var current map[string]json.RawMessage
	if err := send(client, http.MethodGet, strings.TrimSuffix(url, "/"+key), nil, http.StatusOK, &current); err != nil {
		log.Fatalf("read session: %v", err)
	}
	var ws map[string]json.RawMessage
	_ = json.Unmarshal(current["worksheet"], &ws)
	var items []string
	_ = json.Unmarshal(ws[key], &items)

	// Removing index 0 repeatedly empties the registry.
	for range items {
		if err := send(client, http.MethodDelete, url+"/0", nil, http.StatusOK, nil); err != nil {
			log.Fatalf("clear %s: %v", key, err)
		}
	}
}

func send(client *http.Client, method, url string, body interface{}, want int, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
