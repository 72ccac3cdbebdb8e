package main

import (
	"runtime"

	"github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	config := parseArgs()
	if config.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	err := NewApp(config).Run()
	if err != nil {
		logrus.Fatal(err)
	}
}
