package certificates_test

import (
	"crypto/x509"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/datatables/pkg/certificates"
)

var _ = Describe("Certification Provider", func() {
	var subject certificates.Subject

	BeforeEach(func() {
		subject = certificates.Subject{
			Organization:       "datatables",
			OrganizationalUnit: "grids",
			Hosts:              []string{"localhost", "127.0.0.1"},
		}
	})

	Context("self signed certificate", func() {
		It("generates successfully", func() {
			cert, key, err := certificates.GenerateSelfSignedCertificate(subject, time.Now().Add(10*time.Second))
			Expect(err).To(BeNil())
			Expect(key).ToNot(BeNil())

			data := x509.MarshalPKCS1PrivateKey(key)
			Expect(len(data) > 0).To(BeTrue())

			Expect(cert.Issuer.Organization).Should(ContainElement("datatables"))
			Expect(cert.Subject.OrganizationalUnit).Should(ContainElement("grids"))
		})

		// Given hosts naming a DNS name and an IP
		// When the certificate is generated
		// Then each lands in the matching SAN list
		It("adds subject alternative names", func() {
			cert, _, err := certificates.GenerateSelfSignedCertificate(subject, time.Now().Add(time.Hour))
			Expect(err).To(BeNil())

			Expect(cert.DNSNames).To(Equal([]string{"localhost"}))
			Expect(cert.IPAddresses).To(HaveLen(1))
			Expect(cert.IPAddresses[0].Equal(net.ParseIP("127.0.0.1"))).To(BeTrue())
			Expect(cert.VerifyHostname("localhost")).To(Succeed())
		})

		It("omits an empty organizational unit", func() {
			subject.OrganizationalUnit = ""
			cert, _, err := certificates.GenerateSelfSignedCertificate(subject, time.Now().Add(time.Hour))
			Expect(err).To(BeNil())
			Expect(cert.Subject.OrganizationalUnit).To(BeEmpty())
		})

		// Given a certificate with a future expiry
		// When we check the certificate validity
		// Then NotBefore should be before NotAfter
		It("has correct validity period", func() {
			expiry := time.Now().Add(24 * time.Hour)
			cert, _, err := certificates.GenerateSelfSignedCertificate(subject, expiry)
			Expect(err).To(BeNil())

			Expect(cert.NotBefore).To(BeTemporally("<", cert.NotAfter))
			Expect(cert.NotAfter).To(BeTemporally("~", expiry, time.Second))
		})

		It("supports server and client authentication", func() {
			cert, key, err := certificates.GenerateSelfSignedCertificate(subject, time.Now().Add(time.Hour))
			Expect(err).To(BeNil())

			Expect(cert.ExtKeyUsage).To(ContainElement(x509.ExtKeyUsageServerAuth))
			Expect(cert.ExtKeyUsage).To(ContainElement(x509.ExtKeyUsageClientAuth))
			Expect(cert.IsCA).To(BeTrue())
			Expect(key.N.BitLen()).To(Equal(4096))
		})
	})
})
