package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"faqbot/internal/apiclient"
	"faqbot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var serverURL string
	flag.StringVar(&serverURL, "server", "http://127.0.0.1:8000", "Base URL of the faqbot-server API")
	flag.Parse()

	client := apiclient.New(serverURL, 120*time.Second)
	m := tui.New(client)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
