// Package worker models delivery workers as read from the directory.
package worker
