package tui

import "github.com/csheth/portal/internal/nav"

type uploadStage int

const (
	uploadStageIdle uploadStage = iota
	uploadStagePicker
	uploadStagePath
)

const heroTagline = "Strategy, support, and a place to drop your files."

const (
	minContentWidth  = 40
	maxContentWidth  = 96
	contentPadding   = 4
	minPickerHeight  = 5
	pickerChrome     = 16
	defaultPickerRow = 10
)

const notFoundMessage = "Page not found!"

type menuEntry struct {
	View        nav.View
	Description string
}

var homeMenu = []menuEntry{
	{nav.Business, "From strategy to implementation, we help transform your business for the digital age."},
	{nav.Support, "Reliable, 24/7 technical assistance and maintenance to keep your operations running smoothly."},
	{nav.Upload, "Demonstrates how a client-side app interacts with a backend for cloud storage."},
}

var pageCopy = map[nav.View]string{
	nav.Business: "Our Digital Business Services focus on leveraging cutting-edge technology to streamline your operations, " +
		"enhance customer experiences, and drive sustainable growth. We offer consulting, digital marketing, " +
		"e-commerce solutions, and data analytics to help you stay ahead in a competitive market.",
	nav.Support: "We provide round-the-clock Digital Support Services to ensure your systems are always up and running. " +
		"Our team of experts is available to assist with technical issues, system maintenance, software updates, " +
		"and security monitoring, giving you peace of mind and allowing you to focus on your core business.",
	nav.Upload: "This page demonstrates how a frontend app hands a file to a backend service. " +
		"In a real deployment the backend would store the upload in a cloud bucket.",
}
