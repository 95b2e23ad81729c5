// Package language validates and names the language codes carried by ADM
// language attributes and labels.
//
// A small table covers the common ISO 639-1 and 639-2 (including the
// bibliographic variants such as "fre") codes; anything else is handed to
// golang.org/x/text/language.
package language
