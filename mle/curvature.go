package mle

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/mlefit/pkg/errors"
)

// covarianceAt computes the asymptotic covariance at the mode: the Hessian
// of the unscaled log-likelihood, negated and inverted. The negated Hessian
// of a log-likelihood at a genuine local maximum is positive definite; a
// failed Cholesky factorization therefore means the reported mode is not a
// local maximum, or the likelihood is not locally concave there.
func covarianceAt(ll LogLikelihood, mode []float64, hess HessianFunc) (*mat.SymDense, error) {
	n := len(mode)

	h := mat.NewSymDense(n, nil)
	hess(h, ll, mode)

	negH := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			negH.SetSym(i, j, -h.At(i, j))
		}
	}

	if err := errors.CheckMatrix("hessian", negH, n, n); err != nil {
		return nil, err
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(negH); !ok {
		return nil, errors.NewNumericalError("covariance",
			"negated Hessian is not positive definite; the log-likelihood may not be locally concave at the reported mode")
	}

	cov := mat.NewSymDense(n, nil)
	if err := chol.InverseTo(cov); err != nil {
		return nil, errors.Wrap(
			errors.NewNumericalError("covariance", "failed to invert the negated Hessian"),
			err.Error(),
		)
	}

	return cov, nil
}
