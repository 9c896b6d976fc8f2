// Package language maps user supplied language codes and names onto the
// two-letter codes accepted by WhisperX.
package language
