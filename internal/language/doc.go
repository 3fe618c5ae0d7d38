// Package language maps the language hints users write in configuration
// ("eng", "French", "de") to the ISO 639-1 codes transcription services expect.
package language
