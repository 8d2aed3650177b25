// Package main runs the delivery-pipeline benchmarks and outputs results to JSON/Markdown.
// Run with: go run benchmarks/run_benchmarks.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BenchmarkResults holds all benchmark data
type BenchmarkResults struct {
	Timestamp   string           `json:"timestamp"`
	Environment Environment      `json:"environment"`
	Stages      map[string]Stage `json:"stages"`
	Summary     Summary          `json:"summary"`
}

type Environment struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPU       string `json:"cpu"`
	NumCPU    int    `json:"num_cpu"`
	GoVersion string `json:"go_version"`
}

type Stage struct {
	Benchmarks []Benchmark `json:"benchmarks"`
}

type Benchmark struct {
	Name        string  `json:"name"`
	NsPerOp     float64 `json:"ns_per_op"`
	OpsPerSec   float64 `json:"ops_per_sec"`
	BytesPerOp  int64   `json:"bytes_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op"`
}

type Summary struct {
	Parse    StageSummary `json:"parse"`
	Render   StageSummary `json:"render"`
	Validate StageSummary `json:"validate"`
	Sign     StageSummary `json:"sign"`
	Delivery StageSummary `json:"delivery"`
}

type StageSummary struct {
	OpsPerSec float64 `json:"ops_per_sec"`
	LatencyNs float64 `json:"latency_ns"`
	Claim     string  `json:"claim"`
}

func main() {
	fmt.Println("==========================================")
	fmt.Println("   LARKBOT BENCHMARK SUITE")
	fmt.Println("==========================================")
	fmt.Println()

	results := BenchmarkResults{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Environment: Environment{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPU:       getCPUInfo(),
			NumCPU:    runtime.NumCPU(),
			GoVersion: runtime.Version(),
		},
		Stages: make(map[string]Stage),
	}

	fmt.Println("Running variable parsing benchmarks...")
	results.Stages["variables"] = Stage{Benchmarks: runBenchmarks("BenchmarkParse", "./pkg/variables/...")}

	fmt.Println("Running template rendering benchmarks...")
	results.Stages["template"] = Stage{Benchmarks: runBenchmarks("BenchmarkRender", "./pkg/template/...")}

	fmt.Println("Running payload benchmarks...")
	results.Stages["payload"] = Stage{Benchmarks: runBenchmarks("BenchmarkValidate|BenchmarkSign|BenchmarkMarshal", "./pkg/payload/...")}

	fmt.Println("Running delivery benchmarks...")
	results.Stages["delivery"] = Stage{Benchmarks: runBenchmarks("BenchmarkSend", "./pkg/webhook/...")}

	// Delivery numbers include a localhost HTTP round-trip; real webhook
	// latency is dominated by the network, not this pipeline.
	results.Summary = calculateSummary(results.Stages)

	if err := os.MkdirAll("benchmarks/results", 0o755); err != nil {
		fmt.Printf("Error creating results dir: %v\n", err)
		return
	}

	jsonPath := "benchmarks/results/latest.json"
	writeJSON(results, jsonPath)
	fmt.Printf("\nJSON results: %s\n", jsonPath)

	mdPath := "benchmarks/results/LATEST.md"
	writeMarkdown(results, mdPath)
	fmt.Printf("Markdown results: %s\n", mdPath)

	printSummary(results)
}

func getCPUInfo() string {
	if runtime.GOOS == "linux" {
		data, err := os.ReadFile("/proc/cpuinfo")
		if err == nil {
			lines := strings.Split(string(data), "\n")
			for _, line := range lines {
				if strings.HasPrefix(line, "model name") {
					parts := strings.SplitN(line, ":", 2)
					if len(parts) == 2 {
						return strings.TrimSpace(parts[1])
					}
				}
			}
		}
	}
	return "unknown"
}

func runBenchmarks(pattern, pkg string) []Benchmark {
	cmd := exec.Command("go", "test", "-bench="+pattern, "-benchtime=2s", "-benchmem", pkg)
	output, _ := cmd.CombinedOutput()

	return parseBenchmarkOutput(string(output))
}

func parseBenchmarkOutput(output string) []Benchmark {
	var benchmarks []Benchmark

	// Pattern: BenchmarkName-N    iterations    ns/op    bytes/op    allocs/op
	// Allow sub-benchmark segments like BenchmarkRender_Sizes/1KB
	re := regexp.MustCompile(`(Benchmark[\w/]+)-\d+\s+(\d+)\s+([\d.]+)\s+ns/op\s+(\d+)\s+B/op\s+(\d+)\s+allocs/op`)

	matches := re.FindAllStringSubmatch(output, -1)
	for _, match := range matches {
		if len(match) >= 6 {
			nsPerOp, _ := strconv.ParseFloat(match[3], 64)
			bytesPerOp, _ := strconv.ParseInt(match[4], 10, 64)
			allocsPerOp, _ := strconv.ParseInt(match[5], 10, 64)

			opsPerSec := 0.0
			if nsPerOp > 0 {
				opsPerSec = 1e9 / nsPerOp
			}

			benchmarks = append(benchmarks, Benchmark{
				Name:        match[1],
				NsPerOp:     nsPerOp,
				OpsPerSec:   opsPerSec,
				BytesPerOp:  bytesPerOp,
				AllocsPerOp: allocsPerOp,
			})
		}
	}

	return benchmarks
}

func calculateSummary(stages map[string]Stage) Summary {
	summary := Summary{}

	if vars, ok := stages["variables"]; ok {
		for _, b := range vars.Benchmarks {
			if strings.Contains(b.Name, "JSONObject") {
				summary.Parse.OpsPerSec = b.OpsPerSec
				summary.Parse.LatencyNs = b.NsPerOp
			}
		}
		if summary.Parse.OpsPerSec > 0 {
			summary.Parse.Claim = fmt.Sprintf("%.0fK+ parses/s", summary.Parse.OpsPerSec/1000*0.8)
		}
	}

	if tmpl, ok := stages["template"]; ok {
		for _, b := range tmpl.Benchmarks {
			if strings.Contains(b.Name, "Render_Small") {
				summary.Render.OpsPerSec = b.OpsPerSec
				summary.Render.LatencyNs = b.NsPerOp
			}
		}
		if summary.Render.OpsPerSec > 0 {
			summary.Render.Claim = fmt.Sprintf("%.0fK+ renders/s", summary.Render.OpsPerSec/1000*0.8)
		}
	}

	if pl, ok := stages["payload"]; ok {
		for _, b := range pl.Benchmarks {
			if strings.Contains(b.Name, "Validate") {
				summary.Validate.OpsPerSec = b.OpsPerSec
				summary.Validate.LatencyNs = b.NsPerOp
			}
			if strings.Contains(b.Name, "Sign") {
				summary.Sign.OpsPerSec = b.OpsPerSec
				summary.Sign.LatencyNs = b.NsPerOp
			}
		}
		if summary.Sign.OpsPerSec > 0 {
			summary.Sign.Claim = fmt.Sprintf("%.0fK+ signatures/s", summary.Sign.OpsPerSec/1000*0.8)
		}
		if summary.Validate.OpsPerSec > 0 {
			summary.Validate.Claim = fmt.Sprintf("%.0fK+ validations/s", summary.Validate.OpsPerSec/1000*0.8)
		}
	}

	if del, ok := stages["delivery"]; ok {
		for _, b := range del.Benchmarks {
			if strings.Contains(b.Name, "Send") && b.OpsPerSec > summary.Delivery.OpsPerSec {
				summary.Delivery.OpsPerSec = b.OpsPerSec
				summary.Delivery.LatencyNs = b.NsPerOp
			}
		}
		if summary.Delivery.OpsPerSec > 0 {
			summary.Delivery.Claim = fmt.Sprintf("%.1fK+ sends/s (loopback)", summary.Delivery.OpsPerSec/1000*0.7)
		}
	}

	return summary
}

func writeJSON(results BenchmarkResults, path string) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling JSON: %v\n", err)
		return
	}
	os.WriteFile(path, data, 0644)
}

func writeMarkdown(results BenchmarkResults, path string) {
	var sb strings.Builder

	sb.WriteString("# Larkbot Benchmark Results\n\n")
	sb.WriteString(fmt.Sprintf("**Generated**: %s\n\n", results.Timestamp))
	sb.WriteString("## Environment\n\n")
	sb.WriteString(fmt.Sprintf("- **OS**: %s/%s\n", results.Environment.OS, results.Environment.Arch))
	sb.WriteString(fmt.Sprintf("- **CPU**: %s (%d cores)\n", results.Environment.CPU, results.Environment.NumCPU))
	sb.WriteString(fmt.Sprintf("- **Go**: %s\n\n", results.Environment.GoVersion))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Stage | Throughput | Latency | Claim |\n")
	sb.WriteString("|-------|------------|---------|-------|\n")
	rows := []struct {
		name string
		s    StageSummary
	}{
		{"Variable parsing", results.Summary.Parse},
		{"Template render", results.Summary.Render},
		{"JSON validation", results.Summary.Validate},
		{"Signing", results.Summary.Sign},
		{"Delivery (loopback)", results.Summary.Delivery},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %.0f ops/s | %.2fμs | %s |\n",
			row.name, row.s.OpsPerSec, row.s.LatencyNs/1000, row.s.Claim))
	}
	sb.WriteString("\n")

	// Detailed results per stage
	for name, stage := range results.Stages {
		sb.WriteString(fmt.Sprintf("## %s\n\n", cases.Title(language.English).String(name)))
		sb.WriteString("| Benchmark | ops/sec | ns/op | B/op | allocs/op |\n")
		sb.WriteString("|-----------|---------|-------|------|----------|\n")
		for _, b := range stage.Benchmarks {
			sb.WriteString(fmt.Sprintf("| %s | %.0f | %.0f | %d | %d |\n",
				b.Name, b.OpsPerSec, b.NsPerOp, b.BytesPerOp, b.AllocsPerOp))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Reproducing\n\n")
	sb.WriteString("```bash\n")
	sb.WriteString("go run benchmarks/run_benchmarks.go\n")
	sb.WriteString("# Or individual stages:\n")
	sb.WriteString("go test -bench=BenchmarkParse -benchtime=2s -benchmem ./pkg/variables/...\n")
	sb.WriteString("go test -bench=BenchmarkRender -benchtime=2s -benchmem ./pkg/template/...\n")
	sb.WriteString("go test -bench='BenchmarkValidate|BenchmarkSign' -benchtime=2s -benchmem ./pkg/payload/...\n")
	sb.WriteString("go test -bench=BenchmarkSend -benchtime=2s -benchmem ./pkg/webhook/...\n")
	sb.WriteString("```\n")

	os.WriteFile(path, []byte(sb.String()), 0644)
}

func printSummary(results BenchmarkResults) {
	fmt.Println()
	fmt.Println("==========================================")
	fmt.Println("              SUMMARY")
	fmt.Println("==========================================")
	fmt.Printf("Parse:    %.0f ops/s (%.2fμs latency)\n",
		results.Summary.Parse.OpsPerSec,
		results.Summary.Parse.LatencyNs/1000)
	fmt.Printf("Render:   %.0f ops/s (%.2fμs latency)\n",
		results.Summary.Render.OpsPerSec,
		results.Summary.Render.LatencyNs/1000)
	fmt.Printf("Validate: %.0f ops/s (%.2fμs latency)\n",
		results.Summary.Validate.OpsPerSec,
		results.Summary.Validate.LatencyNs/1000)
	fmt.Printf("Sign:     %.0f ops/s (%.2fμs latency)\n",
		results.Summary.Sign.OpsPerSec,
		results.Summary.Sign.LatencyNs/1000)
	fmt.Printf("Delivery: %.0f sends/s (%.2fμs latency, loopback)\n",
		results.Summary.Delivery.OpsPerSec,
		results.Summary.Delivery.LatencyNs/1000)
	fmt.Println("==========================================")
}
