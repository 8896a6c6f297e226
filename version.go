// version.go
package plotdata

// Version of the plotdata engine and CLI.
const Version = "1.1.0"
