package main

import "github.com/shouni/go-generic-scraper/cmd"

func main() {
	cmd.Execute()
}
