package audio

import "github.com/charmbracelet/log"

// Tee broadcasts every chunk from input to all outputs, each getting its
// own copy. Sends block, so the slowest consumer paces the rest. Outputs
// are closed when input closes.
func Tee(input <-chan []float32, outputs ...chan<- []float32) {
	go func() {
		for data := range input {
			for _, out := range outputs {
				dataCopy := make([]float32, len(data))
				copy(dataCopy, data)
				func(ch chan<- []float32) {
					defer func() {
						if r := recover(); r != nil {
							log.Warnf("tee output closed: %v", r)
						}
					}()
					ch <- dataCopy
				}(out)
			}
		}

		for _, out := range outputs {
			func(ch chan<- []float32) {
				defer func() {
					recover() // already closed
				}()
				close(ch)
			}(out)
		}
	}()
}
