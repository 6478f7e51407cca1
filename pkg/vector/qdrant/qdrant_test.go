package qdrant

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/veridocai/veridoc/pkg/backoff"
)

var _ = Describe("retryable", func() {
	It("retries connectivity and throttling failures", func() {
		Expect(retryable(status.Error(codes.Unavailable, "down"))).To(BeTrue())
		Expect(retryable(status.Error(codes.ResourceExhausted, "throttled"))).To(BeTrue())
		Expect(retryable(status.Error(codes.DeadlineExceeded, "slow"))).To(BeTrue())
		Expect(retryable(context.DeadlineExceeded)).To(BeTrue())
	})

	It("does not retry failures a retry cannot fix", func() {
		Expect(retryable(status.Error(codes.InvalidArgument, "bad vector"))).To(BeFalse())
		Expect(retryable(status.Error(codes.Unauthenticated, "bad key"))).To(BeFalse())
		Expect(retryable(errors.New("unclassified"))).To(BeFalse())
	})
})

var _ = Describe("do", func() {
	var driver *Driver

	BeforeEach(func() {
		driver = &Driver{
			timeout: 20 * time.Millisecond,
			retry: backoff.Policy{
				MaxAttempts: 3,
				BaseDelay:   time.Millisecond,
			},
		}
	})

	It("applies a deadline to every call", func() {
		var hadDeadline bool
		err := driver.do(context.Background(), func(ctx context.Context) error {
			_, hadDeadline = ctx.Deadline()
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(hadDeadline).To(BeTrue())
	})

	It("retries transient failures until they recover", func() {
		attempts := 0
		err := driver.do(context.Background(), func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return status.Error(codes.Unavailable, "down")
			}
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(attempts).To(Equal(3))
	})

	It("stops immediately on non-retryable failures", func() {
		attempts := 0
		err := driver.do(context.Background(), func(ctx context.Context) error {
			attempts++
			return status.Error(codes.InvalidArgument, "bad vector")
		})
		Expect(err).To(HaveOccurred())
		Expect(attempts).To(Equal(1))
	})

	It("times out a hung call and retries it", func() {
		attempts := 0
		err := driver.do(context.Background(), func(ctx context.Context) error {
			attempts++
			<-ctx.Done()
			return ctx.Err()
		})
		Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
		Expect(attempts).To(Equal(3))
	})
})
