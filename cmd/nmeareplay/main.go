// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// nmeareplay feeds a captured NMEA log through the track state and
// prints what the pilot would have seen: position, course, compass
// point and the projected point one lookahead ahead. Useful for
// checking a receiver capture on shore before trusting it afloat.
//
// Run:
//
//	go run ./cmd/nmeareplay capture.nmea
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/openmarine/tillerpilot/internal/app"
	"github.com/openmarine/tillerpilot/internal/compass"
	"github.com/openmarine/tillerpilot/internal/gps"
	"github.com/openmarine/tillerpilot/internal/track"
)

func main() {
	lookahead := flag.Float64("lookahead", 100.0, "projection distance in meters")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-lookahead m] <capture.nmea>\n", os.Args[0])
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	defer f.Close()

	tracker := track.New()
	var fix gps.Fix
	fixes := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if !app.ApplySentence(scanner.Text(), tracker, &fix) {
			continue
		}
		fixes++

		pos, ok := tracker.Position()
		if !ok {
			continue
		}

		line := fmt.Sprintf("%s %v", fix.Time, pos)
		if heading, ok := tracker.Heading(); ok {
			az, _ := compass.Azimuth16(heading)
			line += fmt.Sprintf(" %s %.1f°", az, heading)
		}
		if v, ok := tracker.ForwardVector(*lookahead); ok {
			line += fmt.Sprintf(" ahead %v", v.End())
		}
		fmt.Println(line)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	log.Printf("replayed %d fixes", fixes)
}
