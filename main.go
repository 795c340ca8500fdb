package main

import (
	_ "embed"

	"github.com/haierkeys/note-share-service/cmd"
)

//go:embed config/config.yaml
var c string

// @title                      Note Share Service API
// @version                    1.0
// @description                Multi-user note service with sharing, append-only edits and version history.
// @BasePath                   /
// @securityDefinitions.apikey UserAuthToken
// @in                         header
// @name                       Authorization
func main() {
	cmd.Execute(c)
}
