package kafka_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veridocai/veridoc/pkg/eventstream"
	"github.com/veridocai/veridoc/pkg/eventstream/kafka"
	veridoclogger "github.com/veridocai/veridoc/pkg/logger"
)

var _ = Describe("Publisher", func() {
	Describe("NewPublisher", func() {
		It("requires at least one broker", func() {
			_, err := kafka.NewPublisher(kafka.Config{}, veridoclogger.Nop())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("broker"))
		})

		It("creates a publisher with defaults applied", func() {
			p, err := kafka.NewPublisher(kafka.Config{
				Brokers: []string{"localhost:9092"},
			}, veridoclogger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(p).NotTo(BeNil())
			Expect(p.Close()).To(Succeed())
		})
	})

	Describe("PublishIngested", func() {
		It("rejects a nil event without touching the broker", func() {
			p, err := kafka.NewPublisher(kafka.Config{
				Brokers: []string{"localhost:9092"},
			}, veridoclogger.Nop())
			Expect(err).NotTo(HaveOccurred())
			defer p.Close()

			err = p.PublishIngested(context.Background(), nil)
			Expect(err).To(MatchError(eventstream.ErrNilEvent))
		})
	})
})
