package main

import "github.com/StinkyLord/sbom-license-exporter/cmd"

func main() {
	cmd.Execute()
}
