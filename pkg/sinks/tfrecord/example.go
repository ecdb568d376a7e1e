/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tfrecord

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// FeatureName is the key of the feature holding the vector in every Example.
const FeatureName = "S"

// field numbers of tf.train.Example and the messages it nests
const (
	exampleFeatures  protowire.Number = 1
	featuresFeature  protowire.Number = 1
	mapEntryKey      protowire.Number = 1
	mapEntryValue    protowire.Number = 2
	featureFloatList protowire.Number = 2
	floatListValue   protowire.Number = 1
)

// EncodeExample serializes vec as a tf.train.Example with a single FloatList feature named
// FeatureName. Values are narrowed to float32.
func EncodeExample(vec []float64) []byte {
	var floats []byte
	for _, v := range vec {
		floats = protowire.AppendFixed32(floats, math.Float32bits(float32(v)))
	}
	var list []byte
	list = protowire.AppendTag(list, floatListValue, protowire.BytesType)
	list = protowire.AppendBytes(list, floats)

	var feature []byte
	feature = protowire.AppendTag(feature, featureFloatList, protowire.BytesType)
	feature = protowire.AppendBytes(feature, list)

	var entry []byte
	entry = protowire.AppendTag(entry, mapEntryKey, protowire.BytesType)
	entry = protowire.AppendString(entry, FeatureName)
	entry = protowire.AppendTag(entry, mapEntryValue, protowire.BytesType)
	entry = protowire.AppendBytes(entry, feature)

	var features []byte
	features = protowire.AppendTag(features, featuresFeature, protowire.BytesType)
	features = protowire.AppendBytes(features, entry)

	var example []byte
	example = protowire.AppendTag(example, exampleFeatures, protowire.BytesType)
	example = protowire.AppendBytes(example, features)
	return example
}

// DecodeExample extracts the FeatureName float list from a serialized tf.train.Example.
func DecodeExample(b []byte) ([]float32, error) {
	features, err := nested(b, exampleFeatures)
	if err != nil {
		return nil, fmt.Errorf("example: %w", err)
	}
	var out []float32
	found := false
	err = eachField(features, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num != featuresFeature || typ != protowire.BytesType {
			return nil
		}
		key, value, err := mapEntry(v)
		if err != nil {
			return err
		}
		if key != FeatureName {
			return nil
		}
		list, err := nested(value, featureFloatList)
		if err != nil {
			return fmt.Errorf("feature %q: %w", key, err)
		}
		out, err = floatList(list)
		found = true
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("example has no feature %q", FeatureName)
	}
	return out, nil
}

func mapEntry(b []byte) (string, []byte, error) {
	var key string
	var value []byte
	err := eachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case mapEntryKey:
			key = string(v)
		case mapEntryValue:
			value = v
		}
		return nil
	})
	return key, value, err
}

// floatList accepts both the packed and the unpacked encoding of a repeated float.
func floatList(b []byte) ([]float32, error) {
	var out []float32
	err := eachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num != floatListValue {
			return nil
		}
		switch typ {
		case protowire.BytesType:
			for len(v) > 0 {
				bits, n := protowire.ConsumeFixed32(v)
				if n < 0 {
					return protowire.ParseError(n)
				}
				out = append(out, math.Float32frombits(bits))
				v = v[n:]
			}
		case protowire.Fixed32Type:
			bits, n := protowire.ConsumeFixed32(v)
			if n < 0 {
				return protowire.ParseError(n)
			}
			out = append(out, math.Float32frombits(bits))
		}
		return nil
	})
	return out, err
}

// nested returns the payload of the first length-delimited field num of b.
func nested(b []byte, num protowire.Number) ([]byte, error) {
	var out []byte
	found := false
	err := eachField(b, func(n protowire.Number, typ protowire.Type, v []byte) error {
		if n == num && typ == protowire.BytesType && !found {
			out, found = v, true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("missing field %d", num)
	}
	return out, nil
}

// eachField walks the top level fields of a message. For length-delimited fields v is the
// payload, for fixed32 fields it is the raw 4 bytes, other types are skipped.
func eachField(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		var v []byte
		switch typ {
		case protowire.BytesType:
			v, n = protowire.ConsumeBytes(b)
		case protowire.Fixed32Type:
			if len(b) >= 4 {
				v = b[:4]
			}
			n = protowire.ConsumeFieldValue(num, typ, b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if v == nil && typ != protowire.BytesType {
			continue
		}
		if err := fn(num, typ, v); err != nil {
			return err
		}
	}
	return nil
}
