// Package preflight provides readiness checks for the filesystem paths,
// external binaries and credentials subfit depends on.
//
// These checks run in two contexts:
//   - The CLI "subfit check" command runs RunAll and renders every result.
//   - The transcribe, burn and run commands call Require with the checks their
//     stages need so a missing ffmpeg or API key fails before any work starts.
//
// Optional results are reported but never block a command.
package preflight
