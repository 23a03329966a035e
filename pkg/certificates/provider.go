package certificates

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"
)

const keyBits = 4096

// Subject names the owner of a self-signed certificate.
type Subject struct {
	Organization       string
	OrganizationalUnit string
	// Hosts become DNS or IP subject alternative names.
	Hosts []string
}

func GenerateSelfSignedCertificate(subject Subject, expire time.Time) (*x509.Certificate, *rsa.PrivateKey, error) {
	name := pkix.Name{
		Country:      []string{"US"},
		Organization: []string{subject.Organization},
	}
	if subject.OrganizationalUnit != "" {
		name.OrganizationalUnit = []string{subject.OrganizationalUnit}
	}

	csr := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Issuer:                name,
		Subject:               name,
		NotBefore:             time.Now(),
		NotAfter:              expire,
		IsCA:                  true,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}

	for _, h := range subject.Hosts {
		if ip := net.ParseIP(h); ip != nil {
			csr.IPAddresses = append(csr.IPAddresses, ip)
		} else {
			csr.DNSNames = append(csr.DNSNames, h)
		}
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate rsa private key: %w", err)
	}

	certData, err := x509.CreateCertificate(rand.Reader, csr, csr, privateKey.Public(), privateKey)
	if err != nil {
		return nil, nil, err
	}

	cert, err := x509.ParseCertificate(certData)
	if err != nil {
		return nil, nil, err
	}

	return cert, privateKey, nil
}
