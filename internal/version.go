package internal

// Runtime identifies this gateway implementation in diagnostic responses.
const Runtime = "go"

// Version is set at build time with -ldflags "-X ...internal.Version=...".
var Version = "1.0.0"
