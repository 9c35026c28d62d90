/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/suparena/objectgraph"
	"github.com/suparena/objectgraph/processor"
)

var (
	versionFlag  = flag.Bool("version", false, "Show version information")
	vFlag        = flag.Bool("v", false, "Show version information (short)")
	manifestFlag = flag.String("manifest", "entities.yaml", "Path to the entity manifest")
	outFlag      = flag.String("out", "zz_generated_entities.go", "Path of the generated registration file")
)

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		fmt.Println(objectgraph.GetVersionInfo())
		os.Exit(0)
	}

	// Manifest paths may come from the environment in CI setups.
	if err := godotenv.Load(); err == nil {
		if env := os.Getenv("ENTITYMAP_MANIFEST"); env != "" && *manifestFlag == "entities.yaml" {
			*manifestFlag = env
		}
	}

	if err := processor.Run(*manifestFlag, *outFlag); err != nil {
		log.Fatalf("entitymap: %v", err)
	}
}
