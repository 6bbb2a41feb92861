// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht1x_test

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/sht1x/sht1x"
)

// Example shows creating a SHT1x sensor on two GPIO pins and reading from it.
func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	data := gpioreg.ByName("GPIO4")
	clock := gpioreg.ByName("GPIO17")
	if data == nil || clock == nil {
		log.Fatal("failed to find pins")
	}
	pins, err := sht1x.NewGPIOPins(data, clock)
	if err != nil {
		log.Fatal(err)
	}

	dev, err := sht1x.New(pins, data.Number(), clock.Number(), &sht1x.DefaultOpts)
	if err != nil {
		log.Fatalf("failed to initialize SHT1x: %v", err)
	}
	defer dev.Halt()

	env := physic.Env{}
	for range 5 {
		if err := dev.Sense(&env); err != nil {
			log.Println(err)
		} else {
			fmt.Printf("%8s %9s\n", env.Temperature, env.Humidity)
		}
		time.Sleep(2 * time.Second)
	}
}

func ExampleDewPoint() {
	fmt.Println(sht1x.DewPoint(20, 50))
	fmt.Println(sht1x.DewPoint(-10, 80))
	// Output:
	// 8.27
	// -12.01
}
