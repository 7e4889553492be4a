// Package trigger publishes sampling triggers on a fixed interval.
package trigger
