// Package analysis reduces recorded run series to summary numbers.
//
//   - [PowerSpectrum]: Hann-windowed magnitude spectrum of a sampled signal
//   - [DominantFrequency]: strongest non-DC frequency of a signal
//   - [Drift]: relative change of a conserved-looking quantity
//
// Spectra are computed with github.com/mjibson/go-dsp/fft, which accepts
// any input length.
package analysis
