// Package analytics derives engagement metrics from a diary collection:
// writing streaks, time-of-day and emotion distributions, weekly rollups,
// the daily word-count heatmap series, summary statistics and recurring
// words.
//
// Every function is pure. It recomputes from the entries it is given and a
// reference now, and never retains state between calls. Calendar days are
// taken in now's location.
package analytics
