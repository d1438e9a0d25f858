package ui

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

var (
	// Badge colors
	successBadge = color.New(color.BgGreen, color.FgBlack, color.Bold)
	warningBadge = color.New(color.FgYellow, color.Bold)
	errorBadge   = color.New(color.BgRed, color.FgWhite, color.Bold)
	infoBadge    = color.New(color.FgCyan, color.Bold)
	debugBadge   = color.New(color.FgMagenta)

	// Text colors
	successText = color.New(color.FgGreen, color.Bold)
	warningText = color.New(color.FgYellow)
	errorText   = color.New(color.FgRed)
	infoText    = color.New(color.FgCyan)
	mutedText   = color.New(color.FgHiBlack)
	accentText  = color.New(color.FgMagenta, color.Bold)
	neonBlue    = color.New(color.FgHiCyan, color.Bold)

	// Method colors
	methodPOST = color.New(color.BgHiMagenta, color.FgBlack, color.Bold)
	methodGET  = color.New(color.BgHiCyan, color.FgBlack, color.Bold)
)

// PrintInfo logs general server information.
// Format: [ARENA] message
func PrintInfo(msg string) {
	infoBadge.Print("[ARENA]")
	fmt.Print(" ")
	infoText.Println(msg)
}

// PrintWarning logs a configuration problem that does not stop startup.
func PrintWarning(msg string) {
	fmt.Print("⚠️  ")
	warningBadge.Print("[WARNING]")
	fmt.Print(" ")
	warningText.Println(msg)
}

// PrintRequest logs a request with styled output.
// Color-codes status, method, and latency for quick visual parsing.
func PrintRequest(method, path string, status int, latency time.Duration) {
	mutedText.Printf("%s ", time.Now().Format("15:04:05"))

	printMethodBadge(method)
	fmt.Print(" ")

	fmt.Printf("%-20s ", truncatePath(path, 20))

	printStatusBadge(status)
	fmt.Print(" ")

	printLatency(latency)
	fmt.Println()
}

// printMethodBadge prints the HTTP method with appropriate color.
func printMethodBadge(method string) {
	switch method {
	case "POST":
		methodPOST.Printf(" %s ", method)
	case "GET":
		methodGET.Printf(" %s  ", method)
	default:
		debugBadge.Printf(" %s ", method)
	}
}

// printStatusBadge prints the status code with appropriate color.
func printStatusBadge(status int) {
	switch {
	case status >= 200 && status < 300:
		successBadge.Printf(" %d ", status)
	case status >= 300 && status < 400:
		infoBadge.Printf(" %d ", status)
	case status >= 400 && status < 500:
		warningBadge.Printf(" %d ", status)
	default:
		errorBadge.Printf(" %d ", status)
	}
}

// printLatency prints latency with color gradient.
// Green: < 1s, Yellow: < 10s, Red: >= 10s. Model calls are slow.
func printLatency(latency time.Duration) {
	ms := latency.Milliseconds()
	latencyStr := fmt.Sprintf("%6dms", ms)

	switch {
	case ms < 1000:
		successText.Print(latencyStr)
	case ms < 10000:
		warningText.Print(latencyStr)
	default:
		errorText.Print(latencyStr)
	}
}

// truncatePath truncates a path to maxLen characters.
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return path[:maxLen-3] + "..."
}

// PrintStartupInfo prints styled server startup information.
func PrintStartupInfo(host string, port int, credentialConfigured, anthropicDirect bool, limit string) {
	fmt.Println()
	infoBadge.Print("[ARENA]")
	fmt.Print(" Server starting on ")
	neonBlue.Printf("http://%s:%d\n", host, port)

	infoBadge.Print("[ARENA]")
	fmt.Print(" OpenRouter key: ")
	if credentialConfigured {
		successText.Print("configured")
	} else {
		errorText.Print("missing")
	}
	fmt.Print(" | Anthropic direct: ")
	if anthropicDirect {
		successText.Print("on")
	} else {
		mutedText.Print("off")
	}
	fmt.Print(" | Rate limit: ")
	accentText.Println(limit)

	fmt.Println()
	printEndpoints()
}

// printEndpoints prints the available API endpoints.
func printEndpoints() {
	endpoints := []struct {
		method, path, desc string
	}{
		{"POST", "/api/compare", "Single-model proxy"},
		{"POST", "/api/arena", "Parallel comparison (SSE)"},
		{"GET", "/api/models", "Model catalog and presets"},
		{"GET", "/health", "Health check"},
	}

	mutedText.Println("  ┌───────────────────────────────────────────────────────┐")
	for _, e := range endpoints {
		mutedText.Print("  │ ")
		printMethodBadge(e.method)
		fmt.Printf(" %-13s ", e.path)
		mutedText.Printf(" %-30s", e.desc)
		mutedText.Println(" │")
	}
	mutedText.Println("  └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

// PrintShutdown prints a styled shutdown message.
func PrintShutdown() {
	fmt.Println()
	warningBadge.Print("[SHUTDOWN]")
	warningText.Println(" Graceful shutdown initiated...")
}

// PrintGoodbye prints a styled goodbye message.
func PrintGoodbye() {
	successBadge.Print(" OK ")
	fmt.Print(" ")
	successText.Println("Server stopped. Goodbye! 👋")
}
