// Package textutil cleans verdict prose for storage and display.
package textutil
