package onnx

import (
	"image"
	"math"
	"sort"

	"github.com/nfnt/resize"

	"visiond/internal/vision"
)

// ImageNet channel statistics used by MobileNet exports.
var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

// Preprocess resizes img to size x size and returns a normalised NCHW
// float32 tensor body of length 3*size*size.
func Preprocess(img image.Image, size int) []float32 {
	resized := resize.Resize(uint(size), uint(size), img, resize.Bilinear)
	b := resized.Bounds()
	w, h := b.Dx(), b.Dy()
	plane := w * h
	out := make([]float32, 3*plane)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := resized.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := y*w + x
			out[i] = (float32(r)/65535.0 - imagenetMean[0]) / imagenetStd[0]
			out[plane+i] = (float32(g)/65535.0 - imagenetMean[1]) / imagenetStd[1]
			out[2*plane+i] = (float32(bl)/65535.0 - imagenetMean[2]) / imagenetStd[2]
		}
	}
	return out
}

// Probabilities returns out unchanged (as float64) when it already is a
// distribution, otherwise its softmax.
func Probabilities(out []float32) []float64 {
	probs := make([]float64, len(out))
	sum := 0.0
	isDist := true
	for i, v := range out {
		probs[i] = float64(v)
		sum += probs[i]
		if probs[i] < 0 || probs[i] > 1 {
			isDist = false
		}
	}
	if isDist && math.Abs(sum-1) < 1e-3 {
		return probs
	}
	maxV := math.Inf(-1)
	for _, v := range probs {
		maxV = math.Max(maxV, v)
	}
	sum = 0
	for i, v := range probs {
		probs[i] = math.Exp(v - maxV)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// topK picks the k most probable classes, highest first.
func topK(probs []float64, l labeler, k int) []vision.Prediction {
	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return probs[idx[a]] > probs[idx[b]] })
	if k > 0 && len(idx) > k {
		idx = idx[:k]
	}
	out := make([]vision.Prediction, len(idx))
	for i, j := range idx {
		out[i] = vision.Prediction{Label: l.label(j), Probability: probs[j]}
	}
	return out
}
