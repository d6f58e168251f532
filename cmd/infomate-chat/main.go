package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"infomate/internal/client"
	"infomate/internal/tui"
)

func main() {
	var serverURL string
	flag.StringVar(&serverURL, "server", "http://localhost:8000", "InfoMate server base URL")
	flag.Parse()

	api := client.New(serverURL, uuid.NewString())

	banner := "Ask anything about the indexed document."
	status, err := api.Status()
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "cannot reach server at %s: %v\n", serverURL, err)
		os.Exit(1)
	case !status.Ready:
		banner = "Server is up but the document index is not ready yet."
	case status.Summary != "":
		banner = status.Summary
	}

	m := tui.New(api, banner)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
