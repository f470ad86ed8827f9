package dto

type TagWeightDTO struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type TagListDTO struct {
	Tags []*TagWeightDTO `json:"tags"`
}
