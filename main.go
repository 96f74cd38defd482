/*
	Copyright 2026 KeibaCICD
*/

package main

import "github.com/keibacicd/jvdata-engine/cmd"

func main() {
	cmd.Execute()
}
