package main

// Output format constants.
const (
	jsonFormat = "json"
	yamlFormat = "yaml"
	textFormat = "text"
)

// File extension constants.
const (
	wasmExtension = ".wasm"
)
